// Package listing enumerates log groups and streams.
package listing

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"logpull/internal/model"
)

// GroupsAPI is the subset of the CloudWatch Logs API used to list groups.
type GroupsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
}

// StreamsAPI is the subset of the CloudWatch Logs API used to list streams.
type StreamsAPI interface {
	DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
}

// Groups returns all log group names, sorted alphabetically.
func Groups(ctx context.Context, api GroupsAPI) ([]string, error) {
	var names []string
	var next *string
	for {
		out, err := api.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{NextToken: next})
		if err != nil {
			return nil, err
		}
		for _, g := range out.LogGroups {
			names = append(names, aws.ToString(g.LogGroupName))
		}
		if out.NextToken == nil {
			break
		}
		next = out.NextToken
	}
	sort.Strings(names)
	return names, nil
}

// StreamsByCreation returns all stream names of a group ordered by creation
// time, oldest first.
func StreamsByCreation(ctx context.Context, api StreamsAPI, group string) ([]string, error) {
	type stream struct {
		name    string
		created int64
	}
	var streams []stream
	var next *string
	for {
		out, err := api.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
			LogGroupName: aws.String(group),
			NextToken:    next,
		})
		if err != nil {
			return nil, err
		}
		for _, s := range out.LogStreams {
			streams = append(streams, stream{
				name:    aws.ToString(s.LogStreamName),
				created: aws.ToInt64(s.CreationTime),
			})
		}
		if out.NextToken == nil {
			break
		}
		next = out.NextToken
	}
	sort.SliceStable(streams, func(i, j int) bool { return streams[i].created < streams[j].created })
	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = s.name
	}
	return names, nil
}

// RecentStreams returns handles for the limit most-recently-active streams of
// a group, most recent first.
func RecentStreams(ctx context.Context, api StreamsAPI, group string, limit int) ([]model.StreamHandle, error) {
	if limit <= 0 {
		return nil, nil
	}
	var handles []model.StreamHandle
	var next *string
	for len(handles) < limit {
		out, err := api.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
			LogGroupName: aws.String(group),
			OrderBy:      types.OrderByLastEventTime,
			Descending:   aws.Bool(true),
			NextToken:    next,
		})
		if err != nil {
			return nil, err
		}
		for _, s := range out.LogStreams {
			handles = append(handles, model.StreamHandle{Group: group, Stream: aws.ToString(s.LogStreamName)})
			if len(handles) == limit {
				return handles, nil
			}
		}
		if out.NextToken == nil {
			break
		}
		next = out.NextToken
	}
	return handles, nil
}
