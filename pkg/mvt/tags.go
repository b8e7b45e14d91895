// pkg/mvt/tags.go - Tag dictionary resolution
package mvt

// resolveTags maps a feature's flat (key index, value index) pair list
// against the layer dictionaries into a property map. An odd-length list or
// an index outside either dictionary fails the whole feature; later
// duplicate keys overwrite earlier ones.
func resolveTags(tags []uint32, keys []string, values []Value) (map[string]Value, error) {
	if len(tags)%2 != 0 {
		return nil, newParserError(ErrTags)
	}

	properties := make(map[string]Value, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		keyIdx, valueIdx := tags[i], tags[i+1]
		if int(keyIdx) >= len(keys) || int(valueIdx) >= len(values) {
			return nil, newParserError(ErrTags)
		}
		properties[keys[keyIdx]] = values[valueIdx]
	}

	return properties, nil
}
