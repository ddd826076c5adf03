package model

// Statement is one declaration from the input document. A session applies
// statements strictly in slice order.
type Statement interface {
	Position() Pos
	statement()
}

// ApplyPlugin applies a plugin by id.
type ApplyPlugin struct {
	PluginID string
	Pos      Pos
}

// SetProperty writes a project-level property.
type SetProperty struct {
	Key   string
	Value Value
	Pos   Pos
}

// DeclareSigningConfig registers (or reconfigures) a named signing config.
// Extension is the extension whose block declared it.
type DeclareSigningConfig struct {
	Extension   string
	Name        string
	Credentials Credentials
	Pos         Pos
}

// DeclareVariant declares or extends a build type. Extension is the
// extension whose block declared it.
type DeclareVariant struct {
	Extension string
	Name      string
	Config    VariantConfig
	Pos       Pos
}

// DeclareDependency adds an external dependency.
type DeclareDependency struct {
	Coordinate DependencyCoordinate
	Pos        Pos
}

func (s ApplyPlugin) Position() Pos          { return s.Pos }
func (s SetProperty) Position() Pos          { return s.Pos }
func (s DeclareSigningConfig) Position() Pos { return s.Pos }
func (s DeclareVariant) Position() Pos       { return s.Pos }
func (s DeclareDependency) Position() Pos    { return s.Pos }

func (ApplyPlugin) statement()          {}
func (SetProperty) statement()          {}
func (DeclareSigningConfig) statement() {}
func (DeclareVariant) statement()       {}
func (DeclareDependency) statement()    {}
