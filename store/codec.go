package store

import "encoding/json"

// toDoc converts a model value into a JSON-shaped document.
func toDoc(v any) (Doc, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// toValue normalizes any Go value (e.g. a slice of cart items) into JSON
// types so it can be embedded in a Doc field.
func toValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decode unmarshals a document into a model value.
func decode[T any](doc Doc) (T, error) {
	var out T
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

// decodeSlice unmarshals a list of documents into model values.
func decodeSlice[T any](docs []Doc) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// cloneDoc deep-copies a document through a JSON round trip.
func cloneDoc(doc Doc) Doc {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	var out Doc
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
