package models

// Types mirroring the subset of the Kodi JSON-RPC API surface we consume.
// Field sets are deliberately partial; Kodi returns far more than we render.

type Player struct {
	PlayerID   int    `json:"playerid"`
	PlayerType string `json:"playertype,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Item is the "now playing" payload from Player.GetItem. The art map is
// loosely namespaced (poster, fanart3, tvshow.poster, album.front, ...) and
// often incomplete, which is why the artwork package exists at all.
type Item struct {
	ID            int               `json:"id"`
	Type          string            `json:"type"`
	Label         string            `json:"label,omitempty"`
	Title         string            `json:"title"`
	Album         string            `json:"album,omitempty"`
	Artist        []string          `json:"artist,omitempty"`
	ShowTitle     string            `json:"showtitle,omitempty"`
	Season        int               `json:"season,omitempty"`
	Episode       int               `json:"episode,omitempty"`
	TVShowID      int               `json:"tvshowid,omitempty"`
	Duration      int               `json:"duration,omitempty"`
	File          string            `json:"file,omitempty"`
	Thumbnail     string            `json:"thumbnail,omitempty"`
	FanArt        string            `json:"fanart,omitempty"`
	Art           map[string]string `json:"art,omitempty"`
	Plot          string            `json:"plot,omitempty"`
	Director      []string          `json:"director,omitempty"`
	Genre         []string          `json:"genre,omitempty"`
	Year          int               `json:"year,omitempty"`
	Rating        float64           `json:"rating,omitempty"`
	StreamDetails *StreamDetails    `json:"streamdetails,omitempty"`
}

type StreamDetails struct {
	Audio    []AudioStream    `json:"audio,omitempty"`
	Subtitle []SubtitleStream `json:"subtitle,omitempty"`
	Video    []VideoStream    `json:"video,omitempty"`
}

type AudioStream struct {
	Channels int    `json:"channels,omitempty"`
	Codec    string `json:"codec,omitempty"`
	Language string `json:"language,omitempty"`
}

type SubtitleStream struct {
	Language string `json:"language,omitempty"`
}

type VideoStream struct {
	Codec    string  `json:"codec,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration int     `json:"duration,omitempty"`
	Aspect   float64 `json:"aspect,omitempty"`
}

// TimeStamp is Kodi's hours/minutes/seconds split for playback positions.
type TimeStamp struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	Milliseconds int `json:"milliseconds,omitempty"`
}

func (t TimeStamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

type PlayerProperties struct {
	Speed     float64   `json:"speed"`
	Time      TimeStamp `json:"time"`
	TotalTime TimeStamp `json:"totaltime"`
}

type ItemResult struct {
	Item Item `json:"item"`
}

// DownloadDetails comes back from Files.PrepareDownload. Newer Kodi versions
// return only a served path; older builds hand out a VFS token instead.
type DownloadDetails struct {
	Token string `json:"token,omitempty"`
	Path  string `json:"path,omitempty"`
}

type PrepareDownloadResult struct {
	Details  DownloadDetails `json:"details"`
	Mode     string          `json:"mode,omitempty"`
	Protocol string          `json:"protocol,omitempty"`
}

type DirEntry struct {
	File     string `json:"file"`
	FileType string `json:"filetype"`
	Label    string `json:"label,omitempty"`
	Type     string `json:"type,omitempty"`
}

type DirectoryResult struct {
	Files []DirEntry `json:"files"`
}

type VersionResult struct {
	Version struct {
		Major int `json:"major"`
		Minor int `json:"minor"`
		Patch int `json:"patch"`
	} `json:"version"`
}
