package portfolio

// AllowedIndustries is the curated benchmark set used for diversification
// gap detection. Deliberately hand-picked rather than the provider's full
// taxonomy, which is far too granular to treat every absence as a gap.
var AllowedIndustries = map[string]bool{
	// Technology
	"semiconductors":               true,
	"software-infrastructure":      true,
	"software-application":         true,
	"internet-content-information": true,
	"consumer-electronics":         true,
	// Healthcare
	"drug-manufacturers-general": true,
	"biotechnology":              true,
	"medical-devices":            true,
	"healthcare-plans":           true,
	// Financials
	"banks-diversified":     true,
	"asset-management":      true,
	"insurance-diversified": true,
	// Energy
	"oil-gas-integrated":         true,
	"oil-gas-e-p":                true,
	"oil-gas-equipment-services": true,
	// Utilities
	"utilities-regulated-electric": true,
	"utilities-renewable":          true,
	// Industrials
	"aerospace-defense":                 true,
	"railroads":                         true,
	"farm-heavy-construction-machinery": true,
	// Consumer Cyclical
	"auto-manufacturers":      true,
	"specialty-retail":        true,
	"restaurants":             true,
	"home-improvement-retail": true,
	// Consumer Defensive
	"household-personal-products": true,
	"discount-stores":             true,
	// Communication Services
	"telecom-services": true,
	// Real Estate
	"reit-specialty": true,
	// Basic Materials
	"specialty-chemicals": true,
}

// IndustryLabels maps industry keys to display labels.
var IndustryLabels = map[string]string{
	"semiconductors":                    "Semiconductors",
	"software-infrastructure":           "Software - Infrastructure",
	"software-application":              "Software - Application",
	"internet-content-information":      "Internet Content & Information",
	"consumer-electronics":              "Consumer Electronics",
	"drug-manufacturers-general":        "Drug Manufacturers",
	"biotechnology":                     "Biotechnology",
	"medical-devices":                   "Medical Devices",
	"healthcare-plans":                  "Healthcare Plans",
	"banks-diversified":                 "Banks - Diversified",
	"asset-management":                  "Asset Management",
	"insurance-diversified":             "Insurance - Diversified",
	"oil-gas-integrated":                "Oil & Gas Integrated",
	"oil-gas-e-p":                       "Oil & Gas E&P",
	"oil-gas-equipment-services":        "Oil & Gas Equipment & Services",
	"utilities-regulated-electric":      "Utilities - Regulated Electric",
	"utilities-renewable":               "Utilities - Renewable",
	"aerospace-defense":                 "Aerospace & Defense",
	"railroads":                         "Railroads",
	"farm-heavy-construction-machinery": "Farm & Heavy Construction Machinery",
	"auto-manufacturers":                "Auto Manufacturers",
	"specialty-retail":                  "Specialty Retail",
	"restaurants":                       "Restaurants",
	"home-improvement-retail":           "Home Improvement Retail",
	"household-personal-products":       "Household & Personal Products",
	"discount-stores":                   "Discount Stores",
	"telecom-services":                  "Telecom Services",
	"reit-specialty":                    "REITs - Specialty",
	"specialty-chemicals":               "Specialty Chemicals",
}

// sectorKeyMap maps the provider's snake_case fund sector keys to title-case
// display labels.
var sectorKeyMap = map[string]string{
	"technology":             "Technology",
	"financial_services":     "Financial Services",
	"healthcare":             "Healthcare",
	"consumer_cyclical":      "Consumer Cyclical",
	"communication_services": "Communication Services",
	"industrials":            "Industrials",
	"consumer_defensive":     "Consumer Defensive",
	"energy":                 "Energy",
	"realestate":             "Real Estate",
	"basic_materials":        "Basic Materials",
	"utilities":              "Utilities",
}
