// Package crossown decides who owns values that cross the boundary between two
// independently memory-managed runtimes, and keeps track of the keep-alive
// obligations those crossings create.
//
// The building blocks live in subpackages:
//
//   - ownership: the pure resolver from (shape, policy) to an owner
//   - keepalive: the nurse/patient link registry consulted before release
//   - holder: per-type holder kinds fixed before any crossing
//   - override: per-instance override dispatch
//   - dispatch: the dispatcher wiring the pieces for a binding layer
//
// Open assembles them into a Runtime:
//
//	rt, err := crossown.Open(crossown.Config{HolderFile: "holders.toml"})
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	dec, err := rt.Return(ctx, crossown.Site{
//	    Name:   "Pet.owner",
//	    Shape:  crossown.RawReference,
//	    Policy: crossown.ReferenceInternal,
//	}, returnedID, receiverID)
package crossown
