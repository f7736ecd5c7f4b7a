package dashboard

// resolve is the single fallback policy shared by every document: build from
// the input when it is present, otherwise use the document's fallback.
func resolve[T, R any](input *T, build func(*T) R, fallback func() R) R {
	if input == nil {
		return fallback()
	}
	return build(input)
}
