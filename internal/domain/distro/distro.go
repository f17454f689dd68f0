package distro

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/pkginfo"
)

// Policy decides whether software comes from an origin the distribution supports.
type Policy struct {
	name           string
	origins        map[string]struct{}
	components     map[string]struct{}
	requireTrusted bool
}

// NewPolicy validates and creates a Policy.
// At least one origin is required. An empty component list accepts any component.
func NewPolicy(name string, origins, components []string, requireTrusted bool) (Policy, error) {
	if len(origins) == 0 {
		return Policy{}, fmt.Errorf("distro policy %q: at least one supported origin is required", name)
	}
	return Policy{
		name:           name,
		origins:        toSet(origins),
		components:     toSet(components),
		requireTrusted: requireTrusted,
	}, nil
}

// Default returns the policy of the reference distribution: Ubuntu main and restricted.
func Default() Policy {
	p, _ := NewPolicy("ubuntu", []string{"Ubuntu"}, []string{"main", "restricted"}, true)
	return p
}

// Name returns the distribution name.
func (p Policy) Name() string { return p.name }

// IsSupported reports whether doc is supported. Cache facts take precedence over
// the archive values stored in the document.
func (p Policy) IsSupported(doc document.Document, st pkginfo.State) bool {
	origin, component := doc.Origin(), doc.Component()
	if st.InCache {
		if p.requireTrusted && !st.Trusted {
			return false
		}
		if st.Origin != "" {
			origin = st.Origin
		}
		if st.Component != "" {
			component = st.Component
		}
	}

	if _, ok := p.origins[strings.ToLower(origin)]; !ok {
		return false
	}
	if len(p.components) == 0 {
		return true
	}
	_, ok := p.components[strings.ToLower(component)]
	return ok
}

func toSet(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			m[v] = struct{}{}
		}
	}
	return m
}
