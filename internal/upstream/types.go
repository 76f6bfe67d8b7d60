package upstream

// SearchParams 电台检索参数
// nil 表示不过滤；Limit 为 nil 或 <=0 时由调用方补默认值
type SearchParams struct {
	Limit *int
	Name  *string
	Tag   *string
}

// Station Radio Browser 返回的电台信息，原样透传给客户端
type Station struct {
	ChangeUUID      string  `json:"changeuuid,omitempty"`
	StationUUID     string  `json:"stationuuid"`
	Name            string  `json:"name"`
	URL             string  `json:"url,omitempty"`
	URLResolved     string  `json:"url_resolved,omitempty"`
	Homepage        string  `json:"homepage,omitempty"`
	Favicon         string  `json:"favicon,omitempty"`
	Tags            string  `json:"tags,omitempty"`
	Country         string  `json:"country,omitempty"`
	CountryCode     string  `json:"countrycode,omitempty"`
	State           string  `json:"state,omitempty"`
	Language        string  `json:"language,omitempty"`
	Votes           int     `json:"votes"`
	Codec           string  `json:"codec,omitempty"`
	Bitrate         int     `json:"bitrate"`
	HLS             int     `json:"hls"`
	LastCheckOK     int     `json:"lastcheckok"`
	ClickCount      int     `json:"clickcount"`
	ClickTrend      int     `json:"clicktrend"`
	GeoLat          float64 `json:"geo_lat,omitempty"`
	GeoLong         float64 `json:"geo_long,omitempty"`
	HasExtendedInfo bool    `json:"has_extended_info,omitempty"`
}
