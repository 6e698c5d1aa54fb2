package schemas

import "slices"

// KnownRegions is the fixed set of intervention countries rendered on the map.
var KnownRegions = []string{
	"Algeria", "Angola", "Benin", "Botswana", "Burkina Faso", "Burundi",
	"Cabo Verde", "Cameroon", "Central African Republic", "Chad", "Comoros",
	"Congo", "Côte d'Ivoire", "Democratic Republic of the Congo", "Djibouti",
	"Egypt", "Equatorial Guinea", "Eritrea", "Eswatini", "Ethiopia", "Gabon",
	"Gambia", "Ghana", "Guinea", "Guinea-Bissau", "Kenya", "Lesotho", "Liberia",
	"Libya", "Madagascar", "Malawi", "Mali", "Mauritania", "Mauritius",
	"Morocco", "Mozambique", "Namibia", "Niger", "Nigeria", "Rwanda",
	"Sao Tome and Principe", "Senegal", "Seychelles", "Sierra Leone", "Somalia",
	"South Africa", "South Sudan", "Sudan", "Tanzania", "Togo", "Tunisia",
	"Uganda", "Zambia", "Zimbabwe",
}

func IsKnownRegion(name string) bool {
	return slices.Contains(KnownRegions, name)
}
