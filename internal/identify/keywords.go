package identify

// makeKeywords lists each make's own name first, then model names that imply it.
// Order matters: the first make whose name appears in the text wins.
var makeKeywords = []struct {
	make     string
	keywords []string
}{
	{"toyota", []string{"toyota", "trd", "camry", "corolla", "rav4", "tacoma", "tundra", "highlander", "4runner", "prius", "avalon", "supra", "sienna", "venza"}},
	{"honda", []string{"honda", "civic", "accord", "cr-v", "crv", "hr-v", "hrv", "pilot", "odyssey", "ridgeline", "passport", "fit"}},
	{"ford", []string{"ford", "f-150", "f150", "mustang", "explorer", "escape", "bronco", "ranger", "edge", "expedition", "maverick", "fusion"}},
	{"chevrolet", []string{"chevrolet", "chevy", "silverado", "equinox", "traverse", "tahoe", "suburban", "camaro", "corvette", "blazer", "malibu", "colorado", "trax"}},
	{"nissan", []string{"nissan", "altima", "sentra", "rogue", "pathfinder", "murano", "frontier", "titan", "maxima", "versa", "kicks", "armada"}},
	{"hyundai", []string{"hyundai", "elantra", "sonata", "tucson", "santa fe", "palisade", "kona", "venue", "ioniq"}},
	{"kia", []string{"kia", "forte", "optima", "k5", "sportage", "sorento", "telluride", "soul", "seltos", "carnival", "stinger"}},
	{"bmw", []string{"bmw", "bimmer", "3 series", "5 series", "x3", "x5", "x1", "m3", "m5", "330i", "530i", "x7"}},
	{"mercedes", []string{"mercedes", "benz", "mb", "c-class", "e-class", "s-class", "glc", "gle", "gls", "amg", "c300", "e350"}},
	{"audi", []string{"audi", "a3", "a4", "a6", "q3", "q5", "q7", "q8", "e-tron", "rs", "s4", "s5"}},
	{"lexus", []string{"lexus", "rx", "es", "nx", "is", "gx", "lx", "ux", "ls", "rc"}},
	{"subaru", []string{"subaru", "outback", "forester", "crosstrek", "impreza", "wrx", "legacy", "ascent", "brz"}},
	{"volkswagen", []string{"volkswagen", "vw", "jetta", "passat", "tiguan", "atlas", "golf", "gti", "id.4", "taos", "arteon"}},
	{"mazda", []string{"mazda", "cx-5", "cx5", "cx-9", "cx9", "mazda3", "mazda6", "cx-30", "cx30", "cx-50", "mx-5", "miata"}},
	{"gmc", []string{"gmc", "sierra", "yukon", "acadia", "terrain", "canyon", "denali"}},
	{"jeep", []string{"jeep", "wrangler", "grand cherokee", "cherokee", "compass", "renegade", "gladiator", "wagoneer"}},
	{"dodge", []string{"dodge", "ram", "charger", "challenger", "durango", "hornet"}},
	{"tesla", []string{"tesla", "model 3", "model y", "model s", "model x", "cybertruck"}},
	{"acura", []string{"acura", "mdx", "rdx", "tlx", "integra", "ilx"}},
	{"infiniti", []string{"infiniti", "q50", "q60", "qx50", "qx60", "qx80"}},
	{"volvo", []string{"volvo", "xc40", "xc60", "xc90", "s60", "s90", "v60"}},
	{"cadillac", []string{"cadillac", "escalade", "xt4", "xt5", "xt6", "ct4", "ct5", "lyriq"}},
	{"lincoln", []string{"lincoln", "navigator", "aviator", "corsair", "nautilus"}},
	{"buick", []string{"buick", "encore", "envision", "enclave"}},
	{"chrysler", []string{"chrysler", "pacifica", "300"}},
	{"genesis", []string{"genesis", "g70", "g80", "g90", "gv70", "gv80"}},
	{"land rover", []string{"land rover", "range rover", "defender", "discovery", "evoque", "velar"}},
	{"porsche", []string{"porsche", "cayenne", "macan", "911", "taycan", "panamera", "boxster", "cayman"}},
}

// trimKeywords are matched on word boundaries, first hit wins
var trimKeywords = []struct {
	keyword string
	label   string
}{
	{"se", "SE"}, {"le", "LE"}, {"xle", "XLE"}, {"xse", "XSE"}, {"trd", "TRD"},
	{"limited", "Limited"}, {"platinum", "Platinum"}, {"sport", "Sport"},
	{"touring", "Touring"}, {"ex", "EX"}, {"ex-l", "EX-L"}, {"lx", "LX"},
	{"sr", "SR"}, {"sv", "SV"}, {"sl", "SL"}, {"s", "S"}, {"sxt", "SXT"},
	{"gt", "GT"}, {"gt-line", "GT-Line"}, {"premium", "Premium"},
	{"sel", "SEL"}, {"base", "Base"},
	{"rs", "RS"}, {"st", "ST"}, {"raptor", "Raptor"}, {"trail", "Trail"},
	{"off-road", "Off-Road"}, {"pro", "Pro"}, {"nightshade", "Nightshade"},
	{"denali", "Denali"}, {"at4", "AT4"}, {"slt", "SLT"},
	{"laredo", "Laredo"}, {"overland", "Overland"}, {"rubicon", "Rubicon"},
	{"sahara", "Sahara"}, {"willys", "Willys"},
}

// bodyStyles are scanned in full; the last style with a hit wins
var bodyStyles = []struct {
	style    string
	keywords []string
}{
	{"sedan", []string{"sedan", "4 door", "4-door", "four door"}},
	{"suv", []string{"suv", "crossover", "sport utility"}},
	{"truck", []string{"truck", "pickup", "crew cab", "double cab", "regular cab", "extended cab"}},
	{"coupe", []string{"coupe", "2 door", "2-door", "two door"}},
	{"hatchback", []string{"hatchback", "hatch", "5 door", "5-door"}},
	{"wagon", []string{"wagon", "estate"}},
	{"van", []string{"van", "minivan"}},
	{"convertible", []string{"convertible", "cabriolet", "roadster", "spider", "spyder"}},
}

var colorKeywords = []string{
	"white", "black", "silver", "gray", "grey", "red", "blue", "green",
	"brown", "beige", "gold", "orange", "yellow", "purple", "burgundy",
	"champagne", "bronze", "pearl", "midnight", "lunar", "celestial",
	"magnetic", "iconic", "platinum", "cement", "army", "cavalry",
}
