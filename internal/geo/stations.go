package geo

// TTCStations is the fixed table of downtown Toronto subway stations used for
// transit-proximity checks.
var TTCStations = []Station{
	{Name: "Union", Coord: Coordinate{Lat: 43.6453, Lng: -79.3806}},
	{Name: "King", Coord: Coordinate{Lat: 43.6489, Lng: -79.3780}},
	{Name: "Queen", Coord: Coordinate{Lat: 43.6525, Lng: -79.3792}},
	{Name: "Dundas", Coord: Coordinate{Lat: 43.6563, Lng: -79.3809}},
	{Name: "College", Coord: Coordinate{Lat: 43.6613, Lng: -79.3831}},
	{Name: "Wellesley", Coord: Coordinate{Lat: 43.6653, Lng: -79.3837}},
	{Name: "Bloor-Yonge", Coord: Coordinate{Lat: 43.6709, Lng: -79.3857}},
	{Name: "Rosedale", Coord: Coordinate{Lat: 43.6767, Lng: -79.3889}},
	{Name: "St Andrew", Coord: Coordinate{Lat: 43.6475, Lng: -79.3849}},
	{Name: "Osgoode", Coord: Coordinate{Lat: 43.6508, Lng: -79.3867}},
	{Name: "St Patrick", Coord: Coordinate{Lat: 43.6547, Lng: -79.3883}},
	{Name: "Queen's Park", Coord: Coordinate{Lat: 43.6598, Lng: -79.3904}},
	{Name: "Museum", Coord: Coordinate{Lat: 43.6671, Lng: -79.3935}},
	{Name: "St George", Coord: Coordinate{Lat: 43.6683, Lng: -79.3999}},
	{Name: "Spadina", Coord: Coordinate{Lat: 43.6672, Lng: -79.4036}},
	{Name: "Bathurst", Coord: Coordinate{Lat: 43.6666, Lng: -79.4114}},
	{Name: "Christie", Coord: Coordinate{Lat: 43.6643, Lng: -79.4184}},
	{Name: "Ossington", Coord: Coordinate{Lat: 43.6623, Lng: -79.4261}},
	{Name: "Dufferin", Coord: Coordinate{Lat: 43.6601, Lng: -79.4357}},
	{Name: "Bay", Coord: Coordinate{Lat: 43.6701, Lng: -79.3903}},
	{Name: "Sherbourne", Coord: Coordinate{Lat: 43.6722, Lng: -79.3763}},
	{Name: "Castle Frank", Coord: Coordinate{Lat: 43.6739, Lng: -79.3686}},
	{Name: "Broadview", Coord: Coordinate{Lat: 43.6769, Lng: -79.3585}},
	{Name: "Chester", Coord: Coordinate{Lat: 43.6783, Lng: -79.3522}},
	{Name: "Pape", Coord: Coordinate{Lat: 43.6800, Lng: -79.3450}},
	{Name: "Kipling", Coord: Coordinate{Lat: 43.6373, Lng: -79.5355}},
	{Name: "Kennedy", Coord: Coordinate{Lat: 43.7324, Lng: -79.2637}},
	{Name: "Finch", Coord: Coordinate{Lat: 43.7805, Lng: -79.4146}},
	{Name: "Sheppard-Yonge", Coord: Coordinate{Lat: 43.7615, Lng: -79.4109}},
	{Name: "Eglinton", Coord: Coordinate{Lat: 43.7059, Lng: -79.3985}},
}
