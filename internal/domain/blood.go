package domain

// BloodType is one of the eight ABO/Rh groups.
type BloodType string

const (
	BloodAPos  BloodType = "A+"
	BloodANeg  BloodType = "A-"
	BloodBPos  BloodType = "B+"
	BloodBNeg  BloodType = "B-"
	BloodABPos BloodType = "AB+"
	BloodABNeg BloodType = "AB-"
	BloodOPos  BloodType = "O+"
	BloodONeg  BloodType = "O-"
)

// AllBloodTypes lists the eight groups in a stable order.
var AllBloodTypes = []BloodType{
	BloodAPos, BloodANeg, BloodBPos, BloodBNeg, BloodABPos, BloodABNeg, BloodOPos, BloodONeg,
}

func (b BloodType) IsValid() bool {
	switch b {
	case BloodAPos, BloodANeg, BloodBPos, BloodBNeg, BloodABPos, BloodABNeg, BloodOPos, BloodONeg:
		return true
	default:
		return false
	}
}

// Standard transfusion compatibility: which donor groups may supply a
// requested group. O- donates to everyone.
var donorCompatibility = map[BloodType][]BloodType{
	BloodAPos:  {BloodAPos, BloodANeg, BloodOPos, BloodONeg},
	BloodANeg:  {BloodANeg, BloodONeg},
	BloodBPos:  {BloodBPos, BloodBNeg, BloodOPos, BloodONeg},
	BloodBNeg:  {BloodBNeg, BloodONeg},
	BloodABPos: {BloodAPos, BloodANeg, BloodBPos, BloodBNeg, BloodABPos, BloodABNeg, BloodOPos, BloodONeg},
	BloodABNeg: {BloodANeg, BloodBNeg, BloodABNeg, BloodONeg},
	BloodOPos:  {BloodOPos, BloodONeg},
	BloodONeg:  {BloodONeg},
}

// CompatibleDonorTypes returns the donor blood types that may supply the
// requested type. Unknown input yields an empty slice.
func CompatibleDonorTypes(requested BloodType) []BloodType {
	types, ok := donorCompatibility[requested]
	if !ok {
		return []BloodType{}
	}
	out := make([]BloodType, len(types))
	copy(out, types)
	return out
}

// RecipientTypesFor returns the requested blood types a donor of the given
// type may supply. This is the inverse lookup of CompatibleDonorTypes, used
// when a donor becomes available and we search for requests to pair.
func RecipientTypesFor(donor BloodType) []BloodType {
	var out []BloodType
	for _, requested := range AllBloodTypes {
		if CanDonateTo(donor, requested) {
			out = append(out, requested)
		}
	}
	return out
}

// CanDonateTo reports whether a donor of type donor may supply a request of
// type requested.
func CanDonateTo(donor, requested BloodType) bool {
	for _, t := range donorCompatibility[requested] {
		if t == donor {
			return true
		}
	}
	return false
}
