package registry

import (
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/ir"
)

func TestLoadPlugin_RecordsMetadata(t *testing.T) {
	r := New()
	meta, err := r.LoadPlugin(func(api *API, meta *PluginMetadata) bool {
		meta.Name = "charts"
		meta.Version = "0.1.0"
		return true
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Name != "charts" {
		t.Fatalf("expected metadata name %q, got %q", "charts", meta.Name)
	}
	if plugins := r.Plugins(); len(plugins) != 1 || plugins[0] != "charts" {
		t.Fatalf("expected registry to list loaded plugin, got %v", plugins)
	}
}

func TestLoadPlugin_FailureNotRecorded(t *testing.T) {
	r := New()
	_, err := r.LoadPlugin(func(api *API, meta *PluginMetadata) bool {
		return false
	}, nil)
	if err == nil {
		t.Fatalf("expected an error when the entry point reports failure")
	}
	if len(r.Plugins()) != 0 {
		t.Fatalf("expected no plugin recorded on failure")
	}
}

func TestLoadPlugin_DuplicateNameRejected(t *testing.T) {
	r := New()
	entry := func(api *API, meta *PluginMetadata) bool {
		meta.Name = "charts"
		return true
	}
	if _, err := r.LoadPlugin(entry, nil); err != nil {
		t.Fatalf("unexpected error on first load: %v", err)
	}
	if _, err := r.LoadPlugin(entry, nil); err == nil {
		t.Fatalf("expected second load of the same plugin name to fail")
	}
}

func TestRegisterWebRenderer_DuplicateRejected(t *testing.T) {
	r := New()
	fn := func(d *DataHandle, theme string) (string, bool) { return "", true }
	if err := r.RegisterWebRenderer("chart", "charts", fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.RegisterWebRenderer("chart", "charts", fn); err == nil {
		t.Fatalf("expected duplicate web-renderer registration to be rejected")
	}
}

func TestRenderWeb_MissingRegistrationYieldsFalseNotError(t *testing.T) {
	r := New()
	out, ok := r.RenderWeb("chart", nil, "dark")
	if ok || out != "" {
		t.Fatalf("expected a missing registration to report ok=false, got %q/%v", out, ok)
	}
}

func TestRenderWeb_Dispatches(t *testing.T) {
	r := New()
	want := "<svg/>"
	if err := r.RegisterWebRenderer("chart", "charts", func(d *DataHandle, theme string) (string, bool) {
		return want, true
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.RenderWeb("chart", nil, "dark")
	if !ok || got != want {
		t.Fatalf("expected dispatch to registered renderer, got %q ok=%v", got, ok)
	}
}

func TestUnloadPlugin_RemovesItsRegistrations(t *testing.T) {
	r := New()
	unloaded := false
	_, err := r.LoadPlugin(func(api *API, meta *PluginMetadata) bool {
		meta.Name = "charts"
		api.RegisterWebRenderer("chart", "charts", func(d *DataHandle, theme string) (string, bool) {
			return "x", true
		})
		return true
	}, func(meta *PluginMetadata) { unloaded = true })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.UnloadPlugin("charts"); err != nil {
		t.Fatalf("unexpected error unloading: %v", err)
	}
	if !unloaded {
		t.Fatalf("expected unload callback to run")
	}
	if _, ok := r.RenderWeb("chart", nil, "dark"); ok {
		t.Fatalf("expected web renderer registration to be removed with its owning plugin")
	}
}

func TestPropertyParser_LookupRoundTrip(t *testing.T) {
	r := New()
	if _, ok := r.PropertyParser("customProp"); ok {
		t.Fatalf("expected no property parser registered yet")
	}
	r.RegisterPropertyParser("customProp", func(comp *ir.Component, value string) bool { return true })
	if _, ok := r.PropertyParser("customProp"); !ok {
		t.Fatalf("expected registered property parser to be found")
	}
}
