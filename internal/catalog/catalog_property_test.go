//go:build property

package catalog

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	caterrors "git.home.luguber.info/inful/docatlas/internal/catalog/errors"
	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

// Short alphabets make collisions across fields likely.
func genName() gopter.Gen {
	return gen.OneConstOf("a", "b", "a-b", "1.0", "ROOT", "x.y")
}

func genCoords() gopter.Gen {
	return gopter.CombineGens(
		genName(), genName(), genName(),
		gen.OneConstOf(resourceid.FamilyPage, resourceid.FamilyPartial, resourceid.FamilyImage),
		gen.OneConstOf("a.adoc", "b/a.adoc", "a-b.adoc", "a:b.adoc", "1.0@a.adoc"),
	).Map(func(v []interface{}) resourceid.Coordinates {
		return resourceid.Coordinates{
			Component: v[0].(string),
			Version:   v[1].(string),
			Module:    v[2].(string),
			Family:    v[3].(resourceid.Family),
			Relative:  v[4].(string),
		}
	})
}

func TestKeyInjectivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(parameters)

	properties.Property("distinct coordinates have distinct keys", prop.ForAll(
		func(a, b resourceid.Coordinates) bool {
			return (a == b) == (a.Key() == b.Key())
		},
		genCoords(), genCoords(),
	))

	properties.Property("second file with equal coordinates is rejected", prop.ForAll(
		func(a, b resourceid.Coordinates) bool {
			c := New(Options{})
			if _, err := c.AddFile(&File{Path: "first", Src: Src{Coordinates: a, MediaType: "text/asciidoc"}}); err != nil {
				return false
			}
			_, err := c.AddFile(&File{Path: "second", Src: Src{Coordinates: b, MediaType: "text/asciidoc"}})
			if a == b {
				return errors.Is(err, caterrors.ErrDuplicateResource)
			}
			return err == nil && len(c.GetFiles()) == 2
		},
		genCoords(), genCoords(),
	))

	properties.TestingRun(t)
}
