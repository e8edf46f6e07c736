// Package fhircore is a clinical resource object model: a closed set of
// resource kinds behind one polymorphic contract, with lossless JSON
// marshalling and reference-counted ownership handles.
//
// Basic usage:
//
//	h, err := fhircore.Parse(payload)
//	if err != nil {
//	    // handle error
//	}
//	defer h.Release()
//
//	res := h.Resource()
//	fmt.Println(res.Kind(), res.Label())
//
//	out, err := fhircore.Render(res)
//
// Importing this package registers the built-in kinds with the default
// registry; new instances come from New or NewKind.
package fhircore
