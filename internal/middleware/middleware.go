package middleware

// HeaderSet is the part of the response header accumulator a middleware
// may touch.
type HeaderSet interface {
	Add(line string)
}

type ResponseMiddleware interface {
	HandleResponse(headers HeaderSet) error
}

// Apply runs the middlewares in order and stops at the first error.
func Apply(headers HeaderSet, mws ...ResponseMiddleware) error {
	for _, mw := range mws {
		if err := mw.HandleResponse(headers); err != nil {
			return err
		}
	}
	return nil
}
