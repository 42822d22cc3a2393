package guest

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/schema"
	"github.com/wippyai/wasm-signature/signature"
)

var greeting = schema.MustModel("Greeting",
	schema.Field{Name: "text", Type: schema.TypeString, Default: "hello"},
	schema.Field{Name: "count", Type: schema.TypeInt32},
)

func request(t *testing.T, text string) []byte {
	t.Helper()
	host := signature.ForModel(greeting)
	if err := host.Message.Set("text", text); err != nil {
		t.Fatal(err)
	}
	return host.RuntimeContext().Write()
}

func respond(t *testing.T, out []byte) (*schema.Record, error) {
	t.Helper()
	host := signature.ForModel(greeting)
	err := host.RuntimeContext().Read(out)
	return host.Message, err
}

func TestHandleSuccess(t *testing.T) {
	sig := signature.ForModel(greeting)
	out := Handle(context.Background(), sig, request(t, "ping"), func(_ context.Context, c signature.Context) error {
		rec := c.(*signature.Envelope[*schema.Record]).Message
		text := rec.MustGet("text").(string)
		if err := rec.Set("text", text+"/pong"); err != nil {
			return err
		}
		return rec.Set("count", int32(1))
	})

	if signature.IsError(out) {
		t.Fatalf("unexpected error payload % x", out)
	}
	rec, err := respond(t, out)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.MustGet("text"); got != "ping/pong" {
		t.Errorf("text = %v", got)
	}
	if got := rec.MustGet("count"); got != int32(1) {
		t.Errorf("count = %v", got)
	}
}

func TestHandleErrors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name  string
		ctx   context.Context
		input []byte
		fn    Func
		want  string
	}{
		{
			name:  "function error",
			ctx:   context.Background(),
			input: nil,
			fn:    func(context.Context, signature.Context) error { return Errorf("bad %s", "input") },
			want:  "bad input",
		},
		{
			name:  "panic",
			ctx:   context.Background(),
			fn:    func(context.Context, signature.Context) error { panic("kaboom") },
			want:  "panic: kaboom",
		},
		{
			name:  "malformed input",
			ctx:   context.Background(),
			input: []byte{0x03, 0x09},
			fn:    func(context.Context, signature.Context) error { return nil },
			want:  "underrun",
		},
		{
			name: "cancelled",
			ctx:  cancelled,
			fn:   func(context.Context, signature.Context) error { return nil },
			want: context.Canceled.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if input == nil {
				input = request(t, "x")
			}
			out := Handle(tt.ctx, signature.ForModel(greeting), input, tt.fn)
			if !signature.IsError(out) {
				t.Fatalf("expected error payload, got % x", out)
			}
			_, err := respond(t, out)
			if !errors.IsProtocol(err) {
				t.Fatalf("expected protocol error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestHandleValidationFailureIsReported(t *testing.T) {
	strict := schema.MustModel("Strict",
		schema.Field{Name: "name", Type: schema.TypeString, Rules: []schema.Rule{schema.MinLength(1)}, Default: "x"},
	)
	out := Handle(context.Background(), signature.ForModel(strict), signature.ForModel(strict).Write(),
		func(_ context.Context, c signature.Context) error {
			return c.(*signature.Envelope[*schema.Record]).Message.Set("name", "")
		})

	err := signature.ForModel(strict).Read(out)
	if !errors.IsProtocol(err) || !strings.Contains(err.Error(), "length must be at least 1") {
		t.Errorf("unexpected result %v", err)
	}
	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseValidate}) {
		t.Error("remote error must not masquerade as a local validation error")
	}
}
