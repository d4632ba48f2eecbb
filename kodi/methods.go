package kodi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avleth/kodiscreen/models"
)

// itemProperties is everything the now-playing surface needs in one round
// trip. The poller asks for a smaller set, see pollProperties.
var itemProperties = []string{
	"title", "album", "artist", "season", "episode", "showtitle",
	"tvshowid", "duration", "file", "director", "art", "plot",
	"genre", "rating", "streamdetails", "year", "thumbnail",
}

var pollProperties = []string{
	"title", "album", "artist", "showtitle", "season", "episode", "file",
}

func (c *Client) ActivePlayers(ctx context.Context, serverID int) ([]models.Player, error) {
	var players []models.Player
	if err := c.Call(ctx, serverID, "Player.GetActivePlayers", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) CurrentItem(ctx context.Context, serverID, playerID int) (models.Item, error) {
	return c.itemWithProperties(ctx, serverID, playerID, itemProperties)
}

// PollItem fetches only the fields needed to derive an item identity.
func (c *Client) PollItem(ctx context.Context, serverID, playerID int) (models.Item, error) {
	return c.itemWithProperties(ctx, serverID, playerID, pollProperties)
}

func (c *Client) itemWithProperties(ctx context.Context, serverID, playerID int, props []string) (models.Item, error) {
	var result models.ItemResult
	params := map[string]any{"playerid": playerID, "properties": props}
	if err := c.Call(ctx, serverID, "Player.GetItem", params, &result); err != nil {
		return models.Item{}, err
	}
	return result.Item, nil
}

func (c *Client) PlayerProperties(ctx context.Context, serverID, playerID int, props []string) (models.PlayerProperties, error) {
	var result models.PlayerProperties
	params := map[string]any{"playerid": playerID, "properties": props}
	if err := c.Call(ctx, serverID, "Player.GetProperties", params, &result); err != nil {
		return models.PlayerProperties{}, err
	}
	return result, nil
}

func (c *Client) InfoLabels(ctx context.Context, serverID int, labels []string) (map[string]string, error) {
	result := map[string]string{}
	params := map[string]any{"labels": labels}
	if err := c.Call(ctx, serverID, "XBMC.GetInfoLabels", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) PrepareDownload(ctx context.Context, serverID int, path string) (models.DownloadDetails, error) {
	var result models.PrepareDownloadResult
	params := map[string]any{"path": path}
	if err := c.Call(ctx, serverID, "Files.PrepareDownload", params, &result); err != nil {
		return models.DownloadDetails{}, err
	}
	return result.Details, nil
}

func (c *Client) Directory(ctx context.Context, serverID int, directory string) ([]models.DirEntry, error) {
	var result models.DirectoryResult
	params := map[string]any{"directory": directory, "properties": []string{"file"}}
	if err := c.Call(ctx, serverID, "Files.GetDirectory", params, &result); err != nil {
		return nil, err
	}
	return result.Files, nil
}

// Version pings a server; used by the connection tester.
func (c *Client) Version(ctx context.Context, serverID int) (models.VersionResult, error) {
	var result models.VersionResult
	if err := c.Call(ctx, serverID, "JSONRPC.Version", nil, &result); err != nil {
		return models.VersionResult{}, err
	}
	return result, nil
}

// DetailsCall fetches a library-details result (episode, movie, song, album,
// artist) as a loose map so callers can merge payloads with documented
// precedence instead of modelling forty optional fields.
func (c *Client) DetailsCall(ctx context.Context, serverID int, method string, params map[string]any, key string) (map[string]any, error) {
	result := map[string]json.RawMessage{}
	if err := c.Call(ctx, serverID, method, params, &result); err != nil {
		return nil, err
	}
	raw, ok := result[key]
	if !ok {
		return nil, fmt.Errorf("kodi: %s result missing %q", method, key)
	}
	details := map[string]any{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("kodi: failed to decode %s details: %w", method, err)
	}
	return details, nil
}
