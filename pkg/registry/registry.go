// Package registry implements the capability registry: a plugin
// lifecycle and dispatch table that lets a dynamically loaded plugin
// extend component-specific rendering, CSS generation and property
// parsing without the AST->IR lowering pass knowing about it.
//
// The shared-library loader's platform shims (dlopen/dlsym, or the Go
// plugin package) live with an external collaborator. What belongs here
// is everything a plugin can reach once its entry point has been
// resolved to a callable Go value: metadata bookkeeping, capability
// dispatch, the property-parser extension point, and the data-handle
// accessors the API struct exposes to plugin code.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/kryval"

	"github.com/kryonlabs/kryon-core/internal/logx"
)

// APIVersion is the versioned (major.minor.patch) contract a plugin checks
// before initializing.
const APIVersion = "1.0.0"

// PluginMetadata is what a plugin's entry symbol reports about itself.
type PluginMetadata struct {
	Name    string
	Version string
	Extra   map[string]string
}

// EntryFunc is the signature of a plugin's fixed entry symbol: it receives
// the API the core exposes and an out-parameter to fill with its own
// metadata, returning false on failure.
type EntryFunc func(api *API, meta *PluginMetadata) bool

// UnloadFunc is a plugin's optional unload symbol.
type UnloadFunc func(meta *PluginMetadata)

// WebRendererFunc renders a component's custom data to a web-facing
// string.
type WebRendererFunc func(data *DataHandle, theme string) (string, bool)

// CSSGeneratorFunc generates CSS text for a component type under a
// theme.
type CSSGeneratorFunc func(componentType string, theme string) (string, bool)

// ComponentRendererFunc renders a component to a plugin-defined target
// (e.g. a terminal cell buffer); the concrete target is plugin-specific
// and opaque to the core.
type ComponentRendererFunc func(data *DataHandle) (string, bool)

// PropertyParserFunc extends the AST->IR property dispatch table at
// registry scope. It returns false on a value it cannot parse, the same
// bool-reporting discipline every built-in property handler follows.
type PropertyParserFunc func(comp *ir.Component, value string) bool

// CommandHandlerFunc and EventHandlerFunc back the registry's
// command-handler and event-handler registrations.
type CommandHandlerFunc func(args []kryval.Value) (kryval.Value, error)
type EventHandlerFunc func(componentID int, eventKind string) error

type pluginEntry struct {
	meta   PluginMetadata
	unload UnloadFunc
}

// capabilities is the set of per-component-type registrations: at most
// one of each per type; duplicate registration is an error.
type capabilities struct {
	webRenderer       WebRendererFunc
	cssGenerator      CSSGeneratorFunc
	componentRenderer ComponentRendererFunc
	owner             string
}

// Registry holds the process's plugin registrations. It must be
// initialized before the first compile that touches plugins; mutations
// are serialized by an internal mutex. It is modeled as an ordinary Go
// value rather than a package global so tests each get their own
// instance; a calling process that wants singleton behavior keeps one
// Registry for its lifetime.
type Registry struct {
	// SessionID is a random per-instance id minted by New. No log line or
	// error the registry emits includes it.
	SessionID string

	mu sync.Mutex

	plugins map[string]*pluginEntry
	caps    map[string]*capabilities // keyed by component type name

	propertyParsers map[string]PropertyParserFunc
	commandHandlers map[string]CommandHandlerFunc
	eventHandlers   map[string]EventHandlerFunc

	log *logx.Logger
}

// New builds an empty registry. Callers construct a Registry before
// installing a lowering context that consults it.
func New() *Registry {
	return &Registry{
		SessionID:       uuid.New().String(),
		plugins:         make(map[string]*pluginEntry),
		caps:            make(map[string]*capabilities),
		propertyParsers: make(map[string]PropertyParserFunc),
		commandHandlers: make(map[string]CommandHandlerFunc),
		eventHandlers:   make(map[string]EventHandlerFunc),
		log:             logx.New("registry"),
	}
}

// Shutdown unloads every remaining plugin and clears every registration
// table, so a later run never inherits a prior run's state.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, p := range r.plugins {
		if p.unload != nil {
			p.unload(&p.meta)
		}
		r.log.Infof("unloaded plugin %q at shutdown", name)
	}
	r.plugins = make(map[string]*pluginEntry)
	r.caps = make(map[string]*capabilities)
	r.propertyParsers = make(map[string]PropertyParserFunc)
	r.commandHandlers = make(map[string]CommandHandlerFunc)
	r.eventHandlers = make(map[string]EventHandlerFunc)
}

// LoadPlugin calls entry with an API bound to this registry. On success
// the plugin's reported metadata is recorded; on failure nothing is kept
//.
// The platform-specific open-shared-library step is the caller's job
//; entry is already the resolved Go callable.
func (r *Registry) LoadPlugin(entry EntryFunc, unload UnloadFunc) (PluginMetadata, error) {
	api := &API{registry: r}
	var meta PluginMetadata
	if !entry(api, &meta) {
		return PluginMetadata{}, fmt.Errorf("registry: plugin entry point returned failure")
	}
	if meta.Name == "" {
		return PluginMetadata{}, fmt.Errorf("registry: plugin reported empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[meta.Name]; exists {
		return PluginMetadata{}, fmt.Errorf("registry: plugin %q already loaded", meta.Name)
	}
	r.plugins[meta.Name] = &pluginEntry{meta: meta, unload: unload}
	r.log.Infof("loaded plugin %q version %s", meta.Name, meta.Version)
	return meta, nil
}

// UnloadPlugin calls the plugin's unload symbol (if any), closes it, and
// removes every registration it owns.
func (r *Registry) UnloadPlugin(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plugins[name]
	if !ok {
		return fmt.Errorf("registry: plugin %q not loaded", name)
	}
	if p.unload != nil {
		p.unload(&p.meta)
	}
	for typ, c := range r.caps {
		if c.owner == name {
			delete(r.caps, typ)
		}
	}
	delete(r.plugins, name)
	r.log.Infof("unloaded plugin %q", name)
	return nil
}

// Plugins returns the names of every currently loaded plugin.
func (r *Registry) Plugins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	return names
}

func (r *Registry) capsFor(componentType string, create bool) *capabilities {
	c, ok := r.caps[componentType]
	if !ok {
		if !create {
			return nil
		}
		c = &capabilities{}
		r.caps[componentType] = c
	}
	return c
}

// RegisterWebRenderer registers a web-renderer for componentType, owned by
// plugin owner. Duplicate registration for the same type is an error
//.
func (r *Registry) RegisterWebRenderer(componentType, owner string, fn WebRendererFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.capsFor(componentType, true)
	if c.webRenderer != nil {
		return fmt.Errorf("registry: web renderer for %q already registered", componentType)
	}
	c.webRenderer = fn
	c.owner = owner
	return nil
}

// RegisterCSSGenerator registers a CSS generator for componentType.
func (r *Registry) RegisterCSSGenerator(componentType, owner string, fn CSSGeneratorFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.capsFor(componentType, true)
	if c.cssGenerator != nil {
		return fmt.Errorf("registry: css generator for %q already registered", componentType)
	}
	c.cssGenerator = fn
	c.owner = owner
	return nil
}

// RegisterComponentRenderer registers a component renderer for componentType.
func (r *Registry) RegisterComponentRenderer(componentType, owner string, fn ComponentRendererFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.capsFor(componentType, true)
	if c.componentRenderer != nil {
		return fmt.Errorf("registry: component renderer for %q already registered", componentType)
	}
	c.componentRenderer = fn
	c.owner = owner
	return nil
}

// RenderWeb dispatches to the registered web renderer for componentType.
// A missing registration yields (_, false), not an error.
func (r *Registry) RenderWeb(componentType string, data *DataHandle, theme string) (string, bool) {
	r.mu.Lock()
	c := r.capsFor(componentType, false)
	r.mu.Unlock()
	if c == nil || c.webRenderer == nil {
		return "", false
	}
	return c.webRenderer(data, theme)
}

// GenerateCSS dispatches to the registered CSS generator for componentType.
func (r *Registry) GenerateCSS(componentType, theme string) (string, bool) {
	r.mu.Lock()
	c := r.capsFor(componentType, false)
	r.mu.Unlock()
	if c == nil || c.cssGenerator == nil {
		return "", false
	}
	return c.cssGenerator(componentType, theme)
}

// RenderComponent dispatches to the registered component renderer for
// componentType.
func (r *Registry) RenderComponent(componentType string, data *DataHandle) (string, bool) {
	r.mu.Lock()
	c := r.capsFor(componentType, false)
	r.mu.Unlock()
	if c == nil || c.componentRenderer == nil {
		return "", false
	}
	return c.componentRenderer(data)
}

// RegisterPropertyParser extends the AST->IR property dispatch table. A
// second registration for the same name replaces the first; unlike the
// render/CSS capabilities, duplicates here are not an error.
func (r *Registry) RegisterPropertyParser(name string, fn PropertyParserFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.propertyParsers[name] = fn
}

// PropertyParser looks up a plugin-registered property parser, consulted
// by pkg/lower after its built-in dispatch table misses.
func (r *Registry) PropertyParser(name string) (PropertyParserFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.propertyParsers[name]
	return fn, ok
}

// RegisterCommandHandler and RegisterEventHandler back the registry's
// command-handler/event-handler registrations.
func (r *Registry) RegisterCommandHandler(name string, fn CommandHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commandHandlers[name] = fn
}

func (r *Registry) RegisterEventHandler(name string, fn EventHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventHandlers[name] = fn
}

func (r *Registry) CommandHandler(name string) (CommandHandlerFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.commandHandlers[name]
	return fn, ok
}

func (r *Registry) EventHandler(name string) (EventHandlerFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.eventHandlers[name]
	return fn, ok
}
