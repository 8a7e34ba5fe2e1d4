// Package all registers every search engine driver at once.
//
// Import it for its side effects when the engine is chosen at runtime from
// configuration:
//
//	import _ "github.com/ncobase/herosearch/data/all"
//
// Programs bound to a single engine should import only that driver:
//
//	import _ "github.com/ncobase/herosearch/data/elasticsearch"
package all

import (
	_ "github.com/ncobase/herosearch/data/elasticsearch"
	_ "github.com/ncobase/herosearch/data/meilisearch"
	_ "github.com/ncobase/herosearch/data/opensearch"
)
