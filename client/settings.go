package client

import (
	"context"
	"net/http"

	v1 "yoladmin/pkg/api/v1"
)

// GetBotSettings returns the singleton bot configuration as the backend
// sends it.
func (c *Client) GetBotSettings(ctx context.Context) (*v1.BotSettings, error) {
	return call[v1.BotSettings](ctx, c, &request{method: http.MethodGet, path: pathBotSettings})
}

func (c *Client) UpdateBotSettings(ctx context.Context, in v1.BotSettingsUpdate) (*v1.BotSettings, error) {
	return patch[v1.BotSettings](ctx, c, pathBotSettings, in)
}

func (c *Client) GetStatistics(ctx context.Context) (v1.Statistics, error) {
	stats, err := call[v1.Statistics](ctx, c, &request{method: http.MethodGet, path: pathStatistics})
	if err != nil {
		return nil, err
	}
	return *stats, nil
}

func (c *Client) CreateInviteLink(ctx context.Context, groupID string) (*v1.InviteLinkResult, error) {
	return create[v1.InviteLinkResult](ctx, c, pathInviteCreate, v1.InviteLinkRequest{GroupID: groupID})
}

func (c *Client) RevokeInviteLink(ctx context.Context, groupID, link string) (*v1.InviteLinkResult, error) {
	return create[v1.InviteLinkResult](ctx, c, pathInviteRevoke, v1.InviteLinkRequest{GroupID: groupID, InviteLink: link})
}
