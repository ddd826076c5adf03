package variant

import (
	"context"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/model"
)

// SigningRegistry holds the named signing configs of a session.
type SigningRegistry struct {
	configs map[string]*model.SigningConfig
	order   []string
	pos     map[string]model.Pos
}

// NewSigningRegistry creates an empty registry.
func NewSigningRegistry() *SigningRegistry {
	return &SigningRegistry{
		configs: make(map[string]*model.SigningConfig),
		pos:     make(map[string]model.Pos),
	}
}

// Declare registers a signing config. Declaring an existing name again
// merges the credentials, later keys winning.
func (r *SigningRegistry) Declare(ctx context.Context, sc model.SigningConfig, pos model.Pos) {
	logger := ctxlog.FromContext(ctx)
	if existing, ok := r.configs[sc.Name]; ok {
		if existing.Credentials == nil {
			existing.Credentials = make(model.Credentials)
		}
		for k, v := range sc.Credentials {
			existing.Credentials[k] = v
		}
		logger.Debug("Merged signing config.", "name", sc.Name, "credentials", existing.Credentials.Keys())
		return
	}
	r.configs[sc.Name] = &model.SigningConfig{Name: sc.Name, Credentials: sc.Credentials.Clone()}
	r.order = append(r.order, sc.Name)
	r.pos[sc.Name] = pos
	logger.Debug("Declared signing config.", "name", sc.Name, "credentials", sc.Credentials.Keys())
}

// Get returns a copy of the named signing config.
func (r *SigningRegistry) Get(name string) (model.SigningConfig, bool) {
	sc, ok := r.configs[name]
	if !ok {
		return model.SigningConfig{}, false
	}
	return model.SigningConfig{Name: sc.Name, Credentials: sc.Credentials.Clone()}, true
}

// Names returns the declared names in declaration order.
func (r *SigningRegistry) Names() []string {
	return append([]string(nil), r.order...)
}
