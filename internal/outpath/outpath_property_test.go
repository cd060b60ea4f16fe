//go:build property

package outpath

import (
	"path"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"git.home.luguber.info/inful/docatlas/internal/resourceid"
)

func genSegment() gopter.Gen {
	return gen.OneConstOf("a", "b", "topic", "deep", "_hidden", "x y")
}

func genSource() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("c", "comp"),
		gen.OneConstOf("1.0", "master", "v2"),
		gen.OneConstOf("ROOT", "m"),
		gen.OneConstOf(resourceid.FamilyPage, resourceid.FamilyImage, resourceid.FamilyAttachment, resourceid.FamilyAlias),
		gen.SliceOfN(3, genSegment()),
		gen.OneConstOf("index", "page", "other"),
	).Map(func(v []interface{}) Source {
		dirs := v[4].([]string)
		rel := path.Join(append(append([]string{}, dirs...), v[5].(string)+".adoc")...)
		return Source{
			Coordinates: resourceid.Coordinates{
				Component: v[0].(string),
				Version:   v[1].(string),
				Module:    v[2].(string),
				Family:    v[3].(resourceid.Family),
				Relative:  rel,
			},
			MediaType: "text/asciidoc",
		}
	})
}

func genStyle() gopter.Gen {
	return gen.OneConstOf(StyleDefault, StyleDrop, StyleIndexify)
}

func TestOutPubProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("out and pub are deterministic", prop.ForAll(
		func(src Source, style HTMLExtensionStyle) bool {
			o1, o2 := ResolveOut(src, style), ResolveOut(src, style)
			p1, p2 := ResolvePub(src, o1, style, "https://x.test"), ResolvePub(src, o2, style, "https://x.test")
			return reflect.DeepEqual(o1, o2) && reflect.DeepEqual(p1, p2)
		},
		genSource(), genStyle(),
	))

	properties.Property("rootPath leads from dirname to the site root", prop.ForAll(
		func(src Source, style HTMLExtensionStyle) bool {
			out := ResolveOut(src, style)
			return out != nil && path.Join(out.Dirname, out.RootPath) == "."
		},
		genSource(), genStyle(),
	))

	properties.Property("moduleRootPath leads from dirname to the module root", prop.ForAll(
		func(src Source, style HTMLExtensionStyle) bool {
			out := ResolveOut(src, style)
			want := modulePath(src.Coordinates)
			if want == "" {
				want = "."
			}
			return out != nil && path.Join(out.Dirname, out.ModuleRootPath) == want
		},
		genSource(), genStyle(),
	))

	properties.TestingRun(t)
}
