package aggregate

import (
	"fmt"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

type descriptor struct {
	Name      string   `yaml:"name"`
	Title     string   `yaml:"title"`
	Version   string   `yaml:"version"`
	Nav       []string `yaml:"nav"`
	StartPage string   `yaml:"start_page"`
}

func parseDescriptor(data []byte, origin Origin) (descriptor, error) {
	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, ferrors.WrapError(fmt.Errorf("%w: %w", ErrInvalidDescriptor, err), ferrors.CategoryConfig, "parse component descriptor").
			WithContext("source", origin.String()).
			Fatal().
			Build()
	}
	for _, f := range []struct{ field, value string }{{"name", d.Name}, {"version", d.Version}} {
		if f.value == "" {
			return d, ferrors.WrapError(ErrInvalidDescriptor, ferrors.CategoryConfig, "component descriptor has no "+f.field).
				WithContext("source", origin.String()).
				Fatal().
				Build()
		}
	}
	return d, nil
}

func descriptorNotFound(origin Origin) error {
	return ferrors.WrapError(ErrDescriptorNotFound, ferrors.CategoryConfig, "no "+DescriptorFile+" at start path").
		WithContext("source", origin.String()).
		Fatal().
		Build()
}

// newGroup starts a group for a descriptor and the files read with it.
func newGroup(d descriptor, origin Origin, files []VirtualFile) Group {
	return Group{
		Name:      d.Name,
		Title:     d.Title,
		Version:   d.Version,
		Nav:       append([]string(nil), d.Nav...),
		StartPage: d.StartPage,
		Files:     files,
		Origins:   []Origin{origin},
	}
}
