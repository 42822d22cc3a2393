// Package guest is the guest-side entry of a signature exchange.
//
// A guest export receives one input buffer, hands it to Handle together with
// the signature's Context and a user function, and returns exactly one output
// buffer: the encoded result on success or an error payload otherwise.
//
//	func run(input []byte) []byte {
//		sig := testbed.NewModelWithSingleStringFieldSignature()
//		return guest.Handle(context.Background(), sig, input, func(c signature.Context) error {
//			...
//			return nil
//		})
//	}
package guest
