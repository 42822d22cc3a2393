// Package signature defines the host/guest message exchange.
//
// One call cycle moves exactly one buffer each way. The host writes a
// request with RuntimeContext.Write, the guest decodes it with
// GuestContext.FromReadBuffer and answers with either ToWriteBuffer or
// ErrorWriteBuffer, never both. The host hands the answer to
// RuntimeContext.Read.
//
// Success and error are told apart by the first byte of the buffer alone:
// success payloads start with the Model tag, error payloads with the Error
// tag (see IsError). Reading an error payload yields a protocol error:
//
//	if err := sig.RuntimeContext().Read(out); errors.IsProtocol(err) {
//	    // the guest reported err; the message was not modified
//	}
//
// Envelope implements both sides for any generated model.
package signature
