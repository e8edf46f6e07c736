// Package worker provides a worker pool for parallel batch decoding of
// resource payloads.
//
// Example usage:
//
//	pool := worker.NewPool(decoder, 4)
//
//	for i, payload := range payloads {
//	    pool.Submit(worker.Job{ID: strconv.Itoa(i), Payload: payload})
//	}
//
//	batch := pool.CloseAndWait()
//	for _, r := range batch.Results {
//	    if r.Err != nil {
//	        // handle error
//	        continue
//	    }
//	    defer r.Handle.Release()
//	    // use r.Handle.Resource()
//	}
package worker
