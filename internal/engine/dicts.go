package engine

// Data for plausible members of a Bavarian club.
var (
	MalePrenames   = []string{"Johannes", "Josef", "Georg", "Michael", "Franz", "Andreas", "Thomas", "Stefan", "Maximilian", "Korbinian", "Sebastian", "Matthias", "Wolfgang", "Alois", "Jakob"}
	FemalePrenames = []string{"Maria", "Anna", "Theresia", "Elisabeth", "Magdalena", "Katharina", "Franziska", "Barbara", "Johanna", "Veronika", "Monika", "Christina", "Susanne", "Rosa", "Agnes"}
	Lastnames      = []string{"Huber", "Maier", "Bauer", "Wagner", "Gruber", "Hofer", "Steinbrecher", "Schmid", "Brandl", "Obermeier", "Reiter", "Kellner", "Lechner", "Zeiler", "Wimmer", "Fischer", "Eder", "Moser"}
	Titles         = []string{"", "", "", "", "", "", "Dr.", "Prof."}
	Streets        = []string{"Hauptstraße", "Kirchweg", "Dorfplatz", "Bahnhofstraße", "Lindenweg", "Schulstraße", "Am Anger", "Bergstraße", "Mühlweg", "Gartenstraße", "Wiesenweg", "Raiffeisenstraße"}
	Places         = []Place{
		{Postcode: "83022", Name: "Rosenheim"},
		{Postcode: "83064", Name: "Raubling"},
		{Postcode: "83080", Name: "Oberaudorf"},
		{Postcode: "83098", Name: "Brannenburg"},
		{Postcode: "83101", Name: "Rohrdorf"},
		{Postcode: "83112", Name: "Frasdorf"},
		{Postcode: "83229", Name: "Aschau im Chiemgau"},
		{Postcode: "84028", Name: "Landshut"},
	}
	// Bank codes (BLZ) with the BIC of the bank.
	Banks = []Bank{
		{Code: "70020270", BIC: "HYVEDEMMXXX"},
		{Code: "70050000", BIC: "BYLADEMMXXX"},
		{Code: "71150000", BIC: "BYLADEM1ROS"},
		{Code: "70070010", BIC: "DEUTDEMMXXX"},
		{Code: "70040041", BIC: "COBADEFFXXX"},
		{Code: "71160000", BIC: "GENODEF1VRR"},
	}
	Contributions = []float64{12.5, 15, 20, 25, 30, 45.5}
	HonoringYears = []int{10, 25, 40, 50, 60}
)

// Nicknames maps first names to their colloquial forms.
var Nicknames = map[string]string{
	"Johannes":   "Hans",
	"Josef":      "Sepp",
	"Georg":      "Schorsch",
	"Michael":    "Michl",
	"Franz":      "Franzl",
	"Andreas":    "Anderl",
	"Maximilian": "Max",
	"Korbinian":  "Beni",
	"Sebastian":  "Wast",
	"Matthias":   "Hias",
	"Alois":      "Lois",
	"Jakob":      "Jackl",
	"Maria":      "Mare",
	"Theresia":   "Resi",
	"Elisabeth":  "Liesl",
	"Magdalena":  "Leni",
	"Katharina":  "Kathi",
	"Franziska":  "Franzi",
	"Barbara":    "Wawi",
	"Johanna":    "Hanni",
	"Veronika":   "Vroni",
}

type Place struct {
	Postcode string
	Name     string
}

type Bank struct {
	Code string
	BIC  string
}
