package registry

import "encoding/json"

// Marshal renders the registry document as pretty-printed JSON with a
// trailing newline. Legacy array shapes are never written back; saving
// always produces the canonical document.
func Marshal(doc Document) ([]byte, error) {
	if doc.Feeds == nil {
		doc.Feeds = []Feed{}
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
