package resourceid

// Family is the structural category of a resource. It decides which
// physical subtree a file comes from and which output rules apply to it.
type Family string

const (
	FamilyNone       Family = ""
	FamilyPage       Family = "page"
	FamilyPartial    Family = "partial"
	FamilyImage      Family = "image"
	FamilyAttachment Family = "attachment"
	FamilyExample    Family = "example"
	FamilyNavigation Family = "navigation"
	FamilyAlias      Family = "alias"
)

var families = map[string]Family{
	string(FamilyPage):       FamilyPage,
	string(FamilyPartial):    FamilyPartial,
	string(FamilyImage):      FamilyImage,
	string(FamilyAttachment): FamilyAttachment,
	string(FamilyExample):    FamilyExample,
	string(FamilyNavigation): FamilyNavigation,
	string(FamilyAlias):      FamilyAlias,
}

// ParseFamily returns the family named by s. Names are case-sensitive.
func ParseFamily(s string) (Family, bool) {
	f, ok := families[s]
	return f, ok
}

// Valid reports whether f is one of the known families.
func (f Family) Valid() bool {
	_, ok := families[string(f)]
	return ok
}

// Published reports whether files of this family are written to the site.
func (f Family) Published() bool {
	switch f {
	case FamilyPage, FamilyImage, FamilyAttachment, FamilyAlias:
		return true
	default:
		return false
	}
}

func (f Family) String() string { return string(f) }
