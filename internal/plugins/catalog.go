package plugins

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/buildplan/internal/model"
)

// Field is one field of a plugin's extension object.
type Field struct {
	Name string
	// Value is the plugin's own value for the field. It may be unset, a
	// scalar, or a reference to another extension's field.
	Value model.Value
	// Derive computes a value when nothing else sets the field.
	Derive model.DefaultFunc
}

// Property is a default the plugin contributes to a key it does not own.
type Property struct {
	Key   string
	Value model.Value
}

// BuildType is a build type the plugin declares on apply.
type BuildType struct {
	Name             string
	SigningConfigRef *string
	Debuggable       bool
	MinifyEnabled    bool
}

// Definition describes a plugin.
type Definition struct {
	ID             string
	Description    string
	Extension      string
	Fields         []Field
	Properties     []Property
	SigningConfigs []model.SigningConfig
	BuildTypes     []BuildType
	Source         string
}

// Binding materializes the definition's extension object. It returns nil
// when the plugin contributes no extension.
func (d *Definition) Binding() *model.ExtensionBinding {
	if d.Extension == "" {
		return nil
	}
	b := &model.ExtensionBinding{
		PluginID:      d.ID,
		ExtensionName: d.Extension,
		Fields:        make(map[string]model.Value),
		Defaults:      make(map[string]model.DefaultFunc),
	}
	for _, f := range d.Fields {
		if f.Value.IsSet() {
			b.Fields[f.Name] = f.Value
		}
		if f.Derive != nil {
			b.Defaults[f.Name] = f.Derive
		}
	}
	return b
}

// Catalog holds every known plugin definition.
type Catalog struct {
	mu  sync.RWMutex
	all map[string]*Definition
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{all: make(map[string]*Definition)}
}

// Register adds a definition. Registering the same id twice is a programming
// error and panics.
func (c *Catalog) Register(def *Definition) {
	if err := c.Add(def); err != nil {
		panic(err.Error())
	}
}

// Add registers a definition loaded at runtime, reporting collisions with
// already known plugins as errors.
func (c *Catalog) Add(def *Definition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("plugin definition must have an id")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, exists := c.all[def.ID]; exists {
		return fmt.Errorf("plugin with id '%s' already registered by %s", def.ID, prev.Source)
	}
	for _, other := range c.all {
		if def.Extension != "" && other.Extension == def.Extension {
			return fmt.Errorf("plugin '%s' contributes extension '%s' which plugin '%s' already contributes", def.ID, def.Extension, other.ID)
		}
	}
	slog.Debug("Registering plugin.", "id", def.ID, "extension", def.Extension, "source", def.Source)
	c.all[def.ID] = def
	return nil
}

// Get returns the definition registered under id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.all[id]
	return def, ok
}

// IDs returns every registered plugin id, sorted.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.all))
	for id := range c.all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered plugins.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}
