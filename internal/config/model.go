package config

import "github.com/specialistvlad/buildplan/internal/model"

// Module is one build file translated into declarations. Statements keep
// source order, which is the order the session must apply them in.
type Module struct {
	Name       string
	Path       string
	Statements []model.Statement
}

// PluginIDs lists the plugins the module applies, in application order.
func (m *Module) PluginIDs() []string {
	var ids []string
	for _, s := range m.Statements {
		if ap, ok := s.(model.ApplyPlugin); ok {
			ids = append(ids, ap.PluginID)
		}
	}
	return ids
}
