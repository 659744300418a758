package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// Repository loads compiled contracts from the artifacts directory.
// Both Truffle (`<dir>/<Name>.json`) and Foundry (`<dir>/<Name>.sol/<Name>.json`)
// layouts are understood.
type Repository struct {
	dir      string
	compiler config.CompilerConfig
	log      *slog.Logger
	mu       sync.Mutex
	cache    map[string]*domain.Artifact
}

// NewRepository creates a repository over an artifacts directory
func NewRepository(dir string, compiler config.CompilerConfig, log *slog.Logger) *Repository {
	return &Repository{
		dir:      dir,
		compiler: compiler,
		log:      log.With("component", "ArtifactRepository"),
		cache:    make(map[string]*domain.Artifact),
	}
}

// NewRepositoryFromConfig creates the repository for the project's artifacts directory
func NewRepositoryFromConfig(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	dir := cfg.Project.Contracts.Artifacts
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return NewRepository(dir, cfg.Project.Compilers.Solc, log)
}

// rawArtifact covers the fields of Truffle and Foundry build files we read
type rawArtifact struct {
	ContractName string                            `json:"contractName"`
	ABI          json.RawMessage                   `json:"abi"`
	Bytecode     json.RawMessage                   `json:"bytecode"`
	Compiler     *struct{ Version string }         `json:"compiler"`
	Metadata     json.RawMessage                   `json:"metadata"`
	Networks     map[string]domain.ArtifactNetwork `json:"networks"`
}

type rawMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// Get loads the artifact of a contract
func (r *Repository) Get(ctx context.Context, name string) (*domain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if artifact, ok := r.cache[name]; ok {
		return artifact, nil
	}

	path, err := r.find(name)
	if err != nil {
		return nil, err
	}

	artifact, err := r.load(name, path)
	if err != nil {
		return nil, err
	}

	r.cache[name] = artifact
	return artifact, nil
}

func (r *Repository) find(name string) (string, error) {
	candidates := []string{
		filepath.Join(r.dir, name+".json"),
		filepath.Join(r.dir, name+".sol", name+".json"),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no artifact for %s in %s", domain.ErrContractNotFound, name, r.dir)
}

func (r *Repository) load(name, path string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}
	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of %s: %w", name, err)
	}

	code, err := bytecode(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("%s bytecode has unlinked library placeholders; linking is not supported", name)
	}
	bin := common.FromHex(code)
	if len(bin) == 0 {
		return nil, fmt.Errorf("%w: %s is abstract or an interface", domain.ErrNoBytecode, name)
	}

	version := compilerVersion(raw)
	if !r.compiler.Matches(version) {
		return nil, fmt.Errorf("%w: %s was compiled with %s, project pins %s",
			domain.ErrCompilerMismatch, name, version, r.compiler.Version)
	}

	r.log.Debug("loaded artifact", "contract", name, "path", path, "compiler", version)

	return &domain.Artifact{
		Name:            name,
		Path:            path,
		CompilerVersion: version,
		ABI:             &parsedABI,
		Bytecode:        bin,
		Networks:        raw.Networks,
	}, nil
}

// bytecode accepts "0x..." (Truffle) and {"object": "0x..."} (Foundry)
func bytecode(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("unsupported bytecode format: %w", err)
	}
	return obj.Object, nil
}

// compilerVersion reads compiler.version, falling back to the metadata,
// which Truffle stores as an embedded json string
func compilerVersion(raw rawArtifact) string {
	if raw.Compiler != nil && raw.Compiler.Version != "" {
		return raw.Compiler.Version
	}
	if len(raw.Metadata) == 0 {
		return ""
	}

	metadata := []byte(raw.Metadata)
	var embedded string
	if err := json.Unmarshal(metadata, &embedded); err == nil {
		metadata = []byte(embedded)
	}
	var meta rawMetadata
	if err := json.Unmarshal(metadata, &meta); err != nil {
		return ""
	}
	return meta.Compiler.Version
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
