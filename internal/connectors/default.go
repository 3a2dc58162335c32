package connectors

import (
	"google.golang.org/api/option"

	"github.com/mhsabu/Neugrove/internal/connectors/discord"
	"github.com/mhsabu/Neugrove/internal/connectors/github"
	"github.com/mhsabu/Neugrove/internal/connectors/google"
	"github.com/mhsabu/Neugrove/internal/connectors/google/drive"
	"github.com/mhsabu/Neugrove/internal/connectors/notion"
	"github.com/mhsabu/Neugrove/internal/connectors/slack"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Endpoints overrides the API roots of the connectors. Empty fields keep
// the public endpoints.
type Endpoints struct {
	GitHub string
	Slack  string
	Drive  string
}

// Default returns one connector per supported source.
func Default(endpoints Endpoints) []driven.Connector {
	var driveOpts []option.ClientOption
	if endpoints.Drive != "" {
		driveOpts = append(driveOpts, option.WithEndpoint(endpoints.Drive))
	}
	var slackOpts []slack.Option
	if endpoints.Slack != "" {
		slackOpts = append(slackOpts, slack.WithAPIURL(endpoints.Slack))
	}
	var githubOpts []github.Option
	if endpoints.GitHub != "" {
		githubOpts = append(githubOpts, github.WithBaseURL(endpoints.GitHub))
	}

	return []driven.Connector{
		drive.New(google.NewRateLimiter(google.DriveRateLimit), driveOpts...),
		notion.New(nil, nil),
		slack.New(slackOpts...),
		discord.New(nil),
		github.New(githubOpts...),
	}
}
