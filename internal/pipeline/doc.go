// Package pipeline orchestrates one README generation run:
//
//	fetching → analyzing → building_context → composing → generating → done
//
// Any stage failure, panic or cancellation routes the run to
// fallback_rendering, which renders a document from whatever analysis exists
// (or a stub named after the URL). Run therefore always yields a document.
package pipeline
