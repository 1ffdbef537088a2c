// Package errs holds the error taxonomy shared by the domain, the use cases and
// the adapters of the order service.
//
// Every kind has a sentinel (ErrObjectNotFound, ErrInvalidTransition, ...) and a
// struct carrying the details. The structs unwrap to their sentinel so callers
// classify with errors.Is and extract details with errors.As:
//
//	var transition *errs.InvalidTransitionError
//	if errors.As(err, &transition) {
//	    // transition.From, transition.To
//	}
//
// The inbound HTTP adapter maps each sentinel onto a status code; nothing else
// in the service inspects error strings.
package errs
