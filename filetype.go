package argdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// FileTypeOption configures a file-opening converter.
type FileTypeOption func(*fileTypeConfig)

type fileTypeConfig struct {
	encoding string
	errors   string
}

// WithFileEncoding sets the character encoding applied to the opened file,
// by IANA name (e.g. "utf-8", "latin1", "shift_jis").
func WithFileEncoding(name string) FileTypeOption {
	return func(cfg *fileTypeConfig) {
		cfg.encoding = name
	}
}

// WithFileErrors sets the decoding error policy: "strict", "replace" or
// "ignore".
func WithFileErrors(policy string) FileTypeOption {
	return func(cfg *fileTypeConfig) {
		cfg.errors = policy
	}
}

// FileType returns a converter that opens the token as a file. Mode is one
// of "r", "w", "a", "x", optionally suffixed with "b" for binary; the token
// "-" maps to stdin for reads and stdout for writes. The converter yields an
// io.ReadCloser for read modes and an io.WriteCloser otherwise.
func FileType(mode string, opts ...FileTypeOption) (*Converter, error) {
	if mode == "" {
		mode = "r"
	}
	flag, read, err := fileModeFlag(mode)
	if err != nil {
		return nil, err
	}

	cfg := fileTypeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	switch cfg.errors {
	case "", "strict", "replace", "ignore":
	default:
		return nil, fmt.Errorf("argdoc: unknown file error policy %q", cfg.errors)
	}

	var enc encoding.Encoding
	if cfg.encoding != "" {
		enc, err = ianaindex.IANA.Encoding(cfg.encoding)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("argdoc: unknown file encoding %q", cfg.encoding)
		}
	}

	fn := func(raw string) (any, error) {
		if raw == "-" {
			if read {
				return io.NopCloser(os.Stdin), nil
			}
			return nopWriteCloser{os.Stdout}, nil
		}
		f, err := os.OpenFile(raw, flag, 0o644)
		if err != nil {
			return nil, fmt.Errorf("argdoc: cannot open %q: %w", raw, err)
		}
		if enc == nil {
			return f, nil
		}
		if read {
			return readCloser{
				Reader: transform.NewReader(f, decodePolicy(enc, cfg.errors)),
				Closer: f,
			}, nil
		}
		return writeCloser{
			Writer: transform.NewWriter(f, encodePolicy(enc, cfg.errors)),
			Closer: f,
		}, nil
	}

	return &Converter{
		fn: fn,
		ref: TypeRef{
			Kind:     TypeRefFile,
			Mode:     mode,
			Encoding: cfg.encoding,
			Errors:   cfg.errors,
		},
	}, nil
}

var errUndecodableInput = errors.New("argdoc: undecodable bytes in input")

// decodePolicy applies the error policy to decoded text. The decoder
// stands in U+FFFD for bytes it cannot decode; "strict" turns the
// substitution into an error and "ignore" drops it.
func decodePolicy(enc encoding.Encoding, policy string) transform.Transformer {
	decoder := transform.Transformer(enc.NewDecoder())
	switch policy {
	case "strict":
		return transform.Chain(decoder, replacementPolicy{})
	case "ignore":
		return transform.Chain(decoder, replacementPolicy{drop: true})
	default:
		return decoder
	}
}

// encodePolicy applies the error policy to encoded text: "replace"
// substitutes unsupported runes, "ignore" drops them, and "strict" (the
// default) keeps the encoder's own error.
func encodePolicy(enc encoding.Encoding, policy string) transform.Transformer {
	switch policy {
	case "replace":
		return encoding.ReplaceUnsupported(enc.NewEncoder())
	case "ignore":
		unsupported := runes.Predicate(func(r rune) bool {
			_, err := enc.NewEncoder().Bytes([]byte(string(r)))
			return err != nil
		})
		return transform.Chain(runes.Remove(unsupported), enc.NewEncoder())
	default:
		return enc.NewEncoder()
	}
}

// replacementPolicy post-processes decoder output. A literal U+FFFD in
// the source is indistinguishable from a substitution, so strict rejects
// it and ignore drops it as well.
type replacementPolicy struct {
	drop bool
}

func (replacementPolicy) Reset() {}

func (p replacementPolicy) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 3 {
			if !p.drop {
				return nDst, nSrc, errUndecodableInput
			}
			nSrc += size
			continue
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], src[nSrc:nSrc+size])
		nDst += size
		nSrc += size
	}
	return nDst, nSrc, nil
}

func fileModeFlag(mode string) (flag int, read bool, err error) {
	base := strings.TrimSuffix(mode, "b")
	switch base {
	case "r":
		return os.O_RDONLY, true, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, false, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, false, nil
	case "x":
		return os.O_WRONLY | os.O_CREATE | os.O_EXCL, false, nil
	default:
		return 0, false, fmt.Errorf("argdoc: unknown file mode %q", mode)
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

type writeCloser struct {
	io.Writer
	io.Closer
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
