package fixture

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
)

// Symbol locates one checkpoint function in the running binary.
type Symbol struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Entry  string `json:"entry"`
}

// Metadata describes the fixture binary for test tooling that needs to set
// breakpoints on the checkpoints without parsing debug info.
type Metadata struct {
	Platform         string   `json:"platform"`
	Machine          string   `json:"machine"`
	Compiler         string   `json:"compiler"`
	Executable       string   `json:"executable,omitempty"`
	ExecutableSHA256 string   `json:"executableSha256,omitempty"`
	Checkpoints      []Symbol `json:"checkpoints"`
}

// CheckpointSymbols resolves the symbol name and entry address of every
// checkpoint. Entry addresses are only valid for this process image.
func CheckpointSymbols() []Symbol {
	checkpoints := Checkpoints()
	out := make([]Symbol, 0, len(checkpoints))
	for _, cp := range checkpoints {
		pc := reflect.ValueOf(cp.Func).Pointer()
		sym := Symbol{Name: cp.Name, Entry: fmt.Sprintf("%#x", pc)}
		if fn := runtime.FuncForPC(pc); fn != nil {
			sym.Symbol = fn.Name()
		}
		out = append(out, sym)
	}
	return out
}

// Describe builds the metadata for executable. An empty path describes the
// platform and checkpoints only.
func Describe(executable string) (Metadata, error) {
	md := Metadata{
		Platform:    runtime.GOOS,
		Machine:     runtime.GOARCH,
		Compiler:    runtime.Version(),
		Checkpoints: CheckpointSymbols(),
	}
	if executable == "" {
		return md, nil
	}

	sum, err := fileSHA256(executable)
	if err != nil {
		return Metadata{}, fmt.Errorf("hash executable: %w", err)
	}
	md.Executable = executable
	md.ExecutableSHA256 = sum
	return md, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
