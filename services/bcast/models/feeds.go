// Package models holds the records published by the broadcast feeds.
// Field names follow the upstream JSON keys.
package models

// Placeholder is reported in string fields before the first update.
const Placeholder = "--"

// Focus is the telemetry of the rider in focus.
type Focus struct {
	Name                        string `json:"name"`
	Country                     string `json:"country"`
	Team                        string `json:"team"`
	TeamCode                    string `json:"teamCode"`
	Power                       int    `json:"power"`
	AvgPower                    int    `json:"avgPower"`
	NrmPower                    int    `json:"nrmPower"`
	MaxPower                    int    `json:"maxPower"`
	Cadence                     int    `json:"cadence"`
	AvgCadence                  int    `json:"avgCadence"`
	MaxCadence                  int    `json:"maxCadence"`
	HeartRate                   int    `json:"heartrate"`
	AvgHeartRate                int    `json:"avgHeartrate"`
	MaxHeartRate                int    `json:"maxHeartrate"`
	Time                        int    `json:"time"`
	Distance                    int    `json:"distance"`
	Height                      int    `json:"height"`
	Speed                       int    `json:"speed"`
	TSS                         int    `json:"tss"`
	Calories                    int    `json:"calories"`
	Draft                       int    `json:"draft"`
	WindSpeed                   int    `json:"windSpeed"`
	WindAngle                   int    `json:"windAngle"`
	Slope                       int    `json:"slope"`
	EventLapsTotal              int    `json:"eventLapsTotal"`
	EventLapsDone               int    `json:"eventLapsDone"`
	EventDistanceTotal          int    `json:"eventDistanceTotal"`
	EventDistanceDone           int    `json:"eventDistanceDone"`
	EventDistanceToNextLocation int    `json:"eventDistanceToNextLocation"`
	EventNextLocation           int    `json:"eventNextLocation"`
	EventPosition               int    `json:"eventPosition"`
}

// NewFocus returns the placeholder focus record.
func NewFocus() Focus {
	return Focus{Name: Placeholder, Country: Placeholder, Team: Placeholder, TeamCode: Placeholder}
}

// Nearest is one rider close to the rider in focus.
type Nearest struct {
	Name         string `json:"name"`
	Country      string `json:"country"`
	Team         string `json:"team"`
	TeamCode     string `json:"teamCode"`
	Speed        int    `json:"speed"`
	TimeGap      int    `json:"timeGap"`
	Position     int    `json:"position"`
	Distance     int    `json:"distance"`
	IsEliminated bool   `json:"isEliminated"`
}

// Event describes the race being broadcast.
type Event struct {
	Name      string `json:"name"`
	Route     string `json:"route"`
	Laps      int    `json:"laps"`
	Distance  int    `json:"distance"`
	Height    int    `json:"height"`
	Locations int    `json:"locations"`
	Type      string `json:"type"`
}

// NewEvent returns the placeholder event record.
func NewEvent() Event {
	return Event{Name: Placeholder, Route: Placeholder, Type: Placeholder}
}

// Entry is one rider on the start list.
type Entry struct {
	BibNum   int    `json:"bibNum"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Team     string `json:"team"`
	TeamCode string `json:"teamCode"`
}

// Group is a group of riders on the road.
type Group struct {
	GroupNum1 int    `json:"groupNum1"`
	GroupNum2 int    `json:"groupNum2"`
	Leader    string `json:"leader"`
	Size      int    `json:"size"`
	TimeGap1  int    `json:"timeGap1"`
	TimeGap2  int    `json:"timeGap2"`
	IsPeloton bool   `json:"isPeloton"`
}

// ResultIndv is an individual result at a timing location.
type ResultIndv struct {
	Location     int    `json:"location"`
	Position     int    `json:"position"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	Team         string `json:"team"`
	TeamCode     string `json:"teamCode"`
	Points       int    `json:"points"`
	PointsTotal  int    `json:"pointsTotal"`
	Time         int    `json:"time"`
	DeltaTime    int    `json:"deltaTime"`
	IsEliminated bool   `json:"isEliminated"`
}

// ResultTeam is a team result at a timing location.
type ResultTeam struct {
	Location    int     `json:"location"`
	Position    int     `json:"position"`
	Team        string  `json:"team"`
	TeamCode    string  `json:"teamCode"`
	PointsTotal int     `json:"pointsTotal"`
	Time        float64 `json:"time"`
	DeltaTime   float64 `json:"deltaTime"`
}
