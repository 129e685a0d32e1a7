package bootstrap

import (
	"reflect"
	"testing"
)

func TestNameSetMissingKeepsRequestOrder(t *testing.T) {
	set := NewNameSet("VK_KHR_surface", "VK_EXT_debug_utils")

	tests := []struct {
		requested []string
		missing   string
		ok        bool
	}{
		{[]string{"VK_KHR_surface"}, "", false},
		{nil, "", false},
		{[]string{"VK_KHR_surface", "VK_KHR_win32_surface", "VK_KHR_xcb_surface"}, "VK_KHR_win32_surface", true},
		{[]string{"VK_KHR_xcb_surface", "VK_KHR_win32_surface"}, "VK_KHR_xcb_surface", true},
	}
	for _, test := range tests {
		missing, ok := set.Missing(test.requested)
		if missing != test.missing || ok != test.ok {
			t.Errorf("%v: expected (%q, %v), got (%q, %v)", test.requested, test.missing, test.ok, missing, ok)
		}
	}

	if sorted := set.Sorted(); !reflect.DeepEqual(sorted, []string{"VK_EXT_debug_utils", "VK_KHR_surface"}) {
		t.Errorf("unexpected order %v", sorted)
	}
}

func TestSurfaceSupportIsQueriedFresh(t *testing.T) {
	host := newFakeHost()
	catalog := NewCatalog(host.loader)

	first, err := catalog.SurfaceSupport(host.device, host.surface)
	if err != nil {
		t.Fatal(err)
	}
	host.surface.capabilities.CurrentExtent = Extent2D{Width: 1280, Height: 720}
	second, err := catalog.SurfaceSupport(host.device, host.surface)
	if err != nil {
		t.Fatal(err)
	}

	if host.surface.queries != 2 {
		t.Errorf("expected 2 capability queries, got %d", host.surface.queries)
	}
	if first.Capabilities.CurrentExtent == second.Capabilities.CurrentExtent {
		t.Error("second query returned stale capabilities")
	}
	if len(second.Formats) != 2 || len(second.PresentModes) != 2 {
		t.Errorf("unexpected support %+v", second)
	}
}

func TestAPIVersion(t *testing.T) {
	v := MakeAPIVersion(1, 3, 250)
	if v.Major() != 1 || v.Minor() != 3 || v.Patch() != 250 || v.String() != "1.3.250" {
		t.Errorf("unexpected decoding of %s", v)
	}

	tests := []struct {
		version, min APIVersion
		ok           bool
	}{
		{Vulkan1_3, Vulkan1_3, true},
		{v, Vulkan1_3, true},
		{Vulkan1_2, Vulkan1_3, false},
		{MakeAPIVersion(1, 2, 999), Vulkan1_3, false},
		{MakeAPIVersion(2, 0, 0), Vulkan1_3, true},
	}
	for _, test := range tests {
		if test.version.IsAtLeast(test.min) != test.ok {
			t.Errorf("%s at least %s: expected %v", test.version, test.min, test.ok)
		}
	}
}
