package domain

import "encoding/json"

// Detection is a single detected object within a shot.
// Coordinates are normalised to the image size.
type Detection struct {
	// XCenter is the box center on the X axis
	XCenter float32

	// YCenter is the box center on the Y axis
	YCenter float32

	// Width is the box width
	Width float32

	// Height is the box height
	Height float32

	// Label is the object class
	Label string
}

// Record describes where a shot was taken and what was detected in it.
type Record struct {
	// ShotLat is the latitude of the shot location
	ShotLat float64

	// ShotLon is the longitude of the shot location
	ShotLon float64

	// Objects are the detections in submission order
	Objects []Detection
}

// DetectionJSON is the wire form of a Detection.
type DetectionJSON struct {
	XC     float32 `json:"x_c"`
	YC     float32 `json:"y_c"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
	Label  string  `json:"label"`
}

// RecordJSON is the wire form of a Record, sent as the payload_json part.
type RecordJSON struct {
	ShotLat float64         `json:"shot_lat"`
	ShotLon float64         `json:"shot_lon"`
	Objects []DetectionJSON `json:"objects"`
}

// ToJSON converts a Record to its wire form.
// Objects is never nil so that it encodes as [] rather than null.
func (r Record) ToJSON() RecordJSON {
	objs := make([]DetectionJSON, len(r.Objects))
	for i, d := range r.Objects {
		objs[i] = DetectionJSON{
			XC:     d.XCenter,
			YC:     d.YCenter,
			Width:  d.Width,
			Height: d.Height,
			Label:  d.Label,
		}
	}
	return RecordJSON{
		ShotLat: r.ShotLat,
		ShotLon: r.ShotLon,
		Objects: objs,
	}
}

// ToRecord converts the wire form back to a Record.
func (j RecordJSON) ToRecord() Record {
	objs := make([]Detection, len(j.Objects))
	for i, d := range j.Objects {
		objs[i] = Detection{
			XCenter: d.XC,
			YCenter: d.YC,
			Width:   d.Width,
			Height:  d.Height,
			Label:   d.Label,
		}
	}
	return Record{
		ShotLat: j.ShotLat,
		ShotLon: j.ShotLon,
		Objects: objs,
	}
}

// MarshalPayload encodes the record as the JSON payload sent to the service.
func (r Record) MarshalPayload() ([]byte, error) {
	return json.Marshal(r.ToJSON())
}

// UnmarshalRecord decodes a JSON payload into a Record.
func UnmarshalRecord(data []byte) (Record, error) {
	var j RecordJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return Record{}, err
	}
	return j.ToRecord(), nil
}

// clone returns a deep copy so the task never aliases producer memory.
func (r Record) clone() Record {
	if r.Objects == nil {
		return r
	}
	objs := make([]Detection, len(r.Objects))
	copy(objs, r.Objects)
	r.Objects = objs
	return r
}
