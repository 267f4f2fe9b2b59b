// Package config provides the configuration loader for kern.
package config

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the kern.yaml format version this loader reads.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	Kinds  domain.AssociationKinds
}

// NewLoader creates a new Loader. kinds decides which association types are accepted.
func NewLoader(logger ports.Logger, kinds domain.AssociationKinds) *Loader {
	return &Loader{Logger: logger, Kinds: kinds}
}

// DiscoverRoot walks up from cwd to the nearest directory containing kern.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

// Load reads the nearest kern.yaml at or above cwd and builds the workspace it describes.
func (l *Loader) Load(cwd string) (*domain.Workspace, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(configPath)
}

// LoadFile builds the workspace described by the configuration file at configPath.
func (l *Loader) LoadFile(configPath string) (*domain.Workspace, error) {
	var kernfile Kernfile
	digest, err := readAndUnmarshalYAML(configPath, &kernfile)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if kernfile.Version != "" && kernfile.Version != SupportedVersion {
		return nil, zerr.With(domain.ErrUnsupportedVersion, "version", kernfile.Version)
	}

	settings, err := buildSettings(&kernfile)
	if err != nil {
		return nil, err
	}

	ws := &domain.Workspace{
		Root:     filepath.Clean(filepath.Dir(configPath)),
		Settings: settings,
		Document: domain.NewDocument(),
		Aliases:  make(map[string]string),
		Digest:   digest,
	}

	if err := l.buildModel(ws, &kernfile.Model); err != nil {
		return nil, err
	}

	if ws.Document.Len() == 0 {
		l.Logger.Warn(domain.KernFileName + " declares no entities")
	}
	return ws, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.KernFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func buildSettings(kf *Kernfile) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	if d := kf.Cache.Freshness; d != nil {
		if *d <= 0 {
			return settings, zerr.With(domain.ErrInvalidSetting, "cache.freshness", d.String())
		}
		settings.CacheFreshness = *d
	}
	if d := kf.Cache.SweepInterval; d != nil {
		if *d <= 0 {
			return settings, zerr.With(domain.ErrInvalidSetting, "cache.sweepInterval", d.String())
		}
		settings.SweepInterval = *d
	}
	if tol := kf.Snap.Tolerance; tol != nil {
		if *tol < 0 {
			return settings, zerr.With(domain.ErrInvalidSetting, "snap.tolerance", *tol)
		}
		settings.SnapTolerance = *tol
	}

	settings.LogJSON = kf.Log.JSON
	if kf.Log.Level != "" {
		settings.LogLevel = domain.ParseLogLevel(kf.Log.Level)
	}
	return settings, nil
}

func (l *Loader) buildModel(ws *domain.Workspace, model *ModelDTO) error {
	doc := ws.Document

	declare := func(id string, ident domain.Identity) error {
		if id == "" {
			return zerr.With(domain.ErrMissingID, "kind", ident.Kind())
		}
		if _, exists := ws.Aliases[id]; exists {
			return zerr.With(domain.ErrDuplicateID, "id", id)
		}
		ws.Aliases[id] = ident.ID()
		return nil
	}

	resolve := func(owner, ref string) (string, error) {
		key, ok := ws.Aliases[ref]
		if !ok {
			err := zerr.With(domain.ErrUnknownReference, "ref", ref)
			return "", zerr.With(err, "in", owner)
		}
		return key, nil
	}

	for _, dto := range model.Vertices {
		pos, err := toVec(dto)
		if err != nil {
			return err
		}
		ident := domain.NewOwnerIdentity(dto.ID, string(domain.EntityVertex))
		if err := declare(dto.ID, ident); err != nil {
			return err
		}
		if _, err := doc.AddVertex(ident, pos); err != nil {
			return zerr.With(err, "id", dto.ID)
		}
	}

	for _, dto := range model.Edges {
		from, err := resolve(dto.ID, dto.From)
		if err != nil {
			return err
		}
		to, err := resolve(dto.ID, dto.To)
		if err != nil {
			return err
		}
		ident := domain.NewOwnerIdentity(dto.ID, string(domain.EntityEdge))
		if err := declare(dto.ID, ident); err != nil {
			return err
		}
		if _, err := doc.AddEdge(ident, from, to, dto.Split, dto.Inner); err != nil {
			return zerr.With(err, "id", dto.ID)
		}
	}

	for _, dto := range model.Faces {
		edges := make([]string, 0, len(dto.Edges))
		for _, ref := range dto.Edges {
			key, err := resolve(dto.ID, ref)
			if err != nil {
				return err
			}
			edges = append(edges, key)
		}
		ident := domain.NewOwnerIdentity(dto.ID, string(domain.EntityFace))
		if err := declare(dto.ID, ident); err != nil {
			return err
		}
		if _, err := doc.AddFace(ident, edges); err != nil {
			return zerr.With(err, "id", dto.ID)
		}
	}

	for _, dto := range model.Associations {
		rec := domain.AssociationRecord{ID: dto.ID, Type: dto.Type}
		var err error
		if rec.Entity, err = resolve(dto.Type, dto.Entity); err != nil {
			return err
		}
		for _, ref := range dto.Targets {
			key, err := resolve(dto.Type, ref)
			if err != nil {
				return err
			}
			rec.Targets = append(rec.Targets, key)
		}

		a, err := domain.LoadAssociation(rec, l.Kinds)
		if err != nil {
			return err
		}
		if err := doc.AddAssociation(a); err != nil {
			return err
		}
	}
	return nil
}

func toVec(dto VertexDTO) (v3.Vec, error) {
	switch len(dto.At) {
	case 2:
		return v3.Vec{X: dto.At[0], Y: dto.At[1]}, nil
	case 3:
		return v3.Vec{X: dto.At[0], Y: dto.At[1], Z: dto.At[2]}, nil
	default:
		err := zerr.With(zerr.New("vertex position must have 2 or 3 coordinates"), "id", dto.ID)
		return v3.Vec{}, zerr.With(err, "coordinates", len(dto.At))
	}
}

// readAndUnmarshalYAML reads a YAML file, unmarshals it into the target struct and
// returns the XXHash of its content.
func readAndUnmarshalYAML[T any](configPath string, target *T) (uint64, error) {
	// #nosec G304 -- configPath is discovered by the loader or given by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return 0, zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	return xxhash.Sum64(configFile), nil
}
