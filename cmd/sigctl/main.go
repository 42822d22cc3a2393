package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/runtime"
	"github.com/wippyai/wasm-signature/schema"
	"github.com/wippyai/wasm-signature/signature"
	"github.com/wippyai/wasm-signature/testbed"
)

type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	schemaPath  string
	model       string
	out         string
	in          string
	wasm        string
	ref         string
	sets        setFlags
	timeout     time.Duration
	list        bool
	interactive bool
	verbose     bool
	wasi        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.schemaPath, "schema", "", "Path to HCL schema file (default: built-in testbed schema)")
	flag.StringVar(&opts.model, "model", "", "Model to encode, decode or send")
	flag.Var(&opts.sets, "set", "Field assignment field=value (repeatable, dots reach embedded models)")
	flag.StringVar(&opts.out, "out", "", "Write the encoded message to this file")
	flag.StringVar(&opts.in, "in", "", "Decode the message in this file")
	flag.StringVar(&opts.wasm, "wasm", "", "Send the message to this guest module")
	flag.StringVar(&opts.ref, "signature", "", "Signature reference org/name@tag shown with results")
	flag.DurationVar(&opts.timeout, "timeout", 0, "Abort the guest call after this long (0 = no limit)")
	flag.BoolVar(&opts.list, "list", false, "List the schema's models and exit")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.wasi, "wasi", false, "Provide wasi_snapshot_preview1 to the guest")
	flag.Parse()

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer logger.Sync()
	runtime.SetLogger(logger)
	signature.SetLogger(logger)

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sigctl [-schema s.hcl] -list")
	fmt.Fprintln(w, "       sigctl [-schema s.hcl] -model M [-set f=v ...] [-out msg.bin]")
	fmt.Fprintln(w, "       sigctl [-schema s.hcl] -model M -in msg.bin")
	fmt.Fprintln(w, "       sigctl [-schema s.hcl] -model M [-set f=v ...] -wasm guest.wasm [-signature org/name@tag]")
	fmt.Fprintln(w, "       sigctl [-schema s.hcl] [-wasm guest.wasm] -i  (interactive mode)")
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return testbed.Schema()
	}
	return schema.ReadSchema(path)
}

func run(ctx context.Context, opts options, w io.Writer) error {
	s, err := loadSchema(opts.schemaPath)
	if err != nil {
		return err
	}

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.InvalidInput(errors.PhaseRuntime, "interactive mode needs a terminal")
		}
		return runInteractive(s, opts)
	}

	if opts.list {
		return listSchema(w, s)
	}

	if opts.model == "" {
		usage(os.Stderr)
		return errors.InvalidInput(errors.PhaseParse, "-model is required")
	}
	m, ok := s.Model(opts.model)
	if !ok {
		return errors.NotFound(errors.PhaseSchema, "model", opts.model)
	}

	if opts.in != "" {
		data, err := os.ReadFile(opts.in)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		return decodeMessage(w, m, data)
	}

	rec := schema.New(m)
	for _, setting := range opts.sets {
		if err := assign(rec, setting); err != nil {
			return err
		}
	}

	if opts.wasm != "" {
		return sendMessage(ctx, w, rec, opts)
	}

	e := codec.NewEncoder()
	rec.Encode(e)
	if opts.out != "" {
		return os.WriteFile(opts.out, e.Bytes(), 0o644)
	}
	fmt.Fprintf(w, "% x\n", e.Bytes())
	return nil
}

// decodeMessage prints a success payload field by field, or the message
// carried by an error payload.
func decodeMessage(w io.Writer, m *schema.Model, data []byte) error {
	sig := signature.ForModel(m)
	err := sig.RuntimeContext().Read(data)
	if err != nil && signature.IsError(data) && errors.IsProtocol(err) {
		fmt.Fprintf(w, "error payload: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%d bytes)\n", m.Name, len(data))
	printRecord(w, sig.Message, "  ")
	return nil
}

func newRuntime(ctx context.Context, opts options) (*runtime.Runtime, error) {
	return runtime.New(ctx, runtime.Config{
		CloseOnContextDone: opts.timeout > 0,
		WASI:               opts.wasi,
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
	})
}

func sendMessage(ctx context.Context, w io.Writer, rec *schema.Record, opts options) error {
	var ref signature.Ref
	if opts.ref != "" {
		var err error
		if ref, err = signature.ParseRef(opts.ref); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(opts.wasm)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt, err := newRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	mod, err := rt.Load(ctx, data)
	if err != nil {
		return err
	}
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	sig := signature.ForModel(rec.Model())
	sig.Message = rec
	runtime.Logger().Info("sending message",
		zap.String("model", rec.Model().Name),
		zap.Stringer("signature", ref))

	err = inst.Run(ctx, sig)
	if errors.IsProtocol(err) {
		fmt.Fprintf(w, "guest error: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	if ref.Name != "" {
		fmt.Fprintf(w, "%s -> ", ref)
	}
	fmt.Fprintf(w, "%s\n", rec.Model().Name)
	printRecord(w, sig.Message, "  ")
	return nil
}
