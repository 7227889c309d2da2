package listing

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"logpull/internal/model"
)

type mockGroupsAPI struct {
	responses []*cloudwatchlogs.DescribeLogGroupsOutput
	err       error
	call      int
}

func (m *mockGroupsAPI) DescribeLogGroups(ctx context.Context, in *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	r := m.responses[m.call]
	m.call++
	return r, nil
}

type mockStreamsAPI struct {
	responses []*cloudwatchlogs.DescribeLogStreamsOutput
	inputs    []*cloudwatchlogs.DescribeLogStreamsInput
	err       error
	call      int
}

func (m *mockStreamsAPI) DescribeLogStreams(ctx context.Context, in *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	r := m.responses[m.call]
	m.call++
	return r, nil
}

func groupsPage(next string, names ...string) *cloudwatchlogs.DescribeLogGroupsOutput {
	out := &cloudwatchlogs.DescribeLogGroupsOutput{}
	if next != "" {
		out.NextToken = aws.String(next)
	}
	for _, n := range names {
		out.LogGroups = append(out.LogGroups, types.LogGroup{LogGroupName: aws.String(n)})
	}
	return out
}

func TestGroupsPaginatesAndSorts(t *testing.T) {
	m := &mockGroupsAPI{responses: []*cloudwatchlogs.DescribeLogGroupsOutput{
		groupsPage("n1", "/app/zeta", "/app/alpha"),
		groupsPage("", "/app/mid"),
	}}
	got, err := Groups(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/app/alpha", "/app/mid", "/app/zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	if m.call != 2 {
		t.Fatalf("calls = %d, want 2", m.call)
	}
}

func TestGroupsPropagatesError(t *testing.T) {
	if _, err := Groups(context.Background(), &mockGroupsAPI{err: errors.New("denied")}); err == nil {
		t.Fatalf("expected error")
	}
}

func streamsPage(next string, streams ...types.LogStream) *cloudwatchlogs.DescribeLogStreamsOutput {
	out := &cloudwatchlogs.DescribeLogStreamsOutput{LogStreams: streams}
	if next != "" {
		out.NextToken = aws.String(next)
	}
	return out
}

func TestStreamsByCreation(t *testing.T) {
	m := &mockStreamsAPI{responses: []*cloudwatchlogs.DescribeLogStreamsOutput{
		streamsPage("n1",
			types.LogStream{LogStreamName: aws.String("newer"), CreationTime: aws.Int64(300)},
			types.LogStream{LogStreamName: aws.String("oldest"), CreationTime: aws.Int64(100)},
		),
		streamsPage("",
			types.LogStream{LogStreamName: aws.String("middle"), CreationTime: aws.Int64(200)},
		),
	}}
	got, err := StreamsByCreation(context.Background(), m, "/app/api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"oldest", "middle", "newer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("streams = %v, want %v", got, want)
	}
}

func TestRecentStreams(t *testing.T) {
	tests := []struct {
		name  string
		pages []*cloudwatchlogs.DescribeLogStreamsOutput
		limit int
		want  []model.StreamHandle
	}{
		{
			name: "limit within first page",
			pages: []*cloudwatchlogs.DescribeLogStreamsOutput{
				streamsPage("n1",
					types.LogStream{LogStreamName: aws.String("s1")},
					types.LogStream{LogStreamName: aws.String("s2")},
					types.LogStream{LogStreamName: aws.String("s3")},
				),
			},
			limit: 2,
			want: []model.StreamHandle{
				{Group: "/app/api", Stream: "s1"},
				{Group: "/app/api", Stream: "s2"},
			},
		},
		{
			name: "limit spans pages",
			pages: []*cloudwatchlogs.DescribeLogStreamsOutput{
				streamsPage("n1", types.LogStream{LogStreamName: aws.String("s1")}),
				streamsPage("", types.LogStream{LogStreamName: aws.String("s2")}),
			},
			limit: 3,
			want: []model.StreamHandle{
				{Group: "/app/api", Stream: "s1"},
				{Group: "/app/api", Stream: "s2"},
			},
		},
		{
			name:  "zero limit issues no calls",
			pages: nil,
			limit: 0,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockStreamsAPI{responses: tt.pages}
			got, err := RecentStreams(context.Background(), m, "/app/api", tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("handles = %v, want %v", got, tt.want)
			}
			if tt.limit == 0 && len(m.inputs) != 0 {
				t.Fatalf("expected no API calls, got %d", len(m.inputs))
			}
		})
	}
}

func TestRecentStreamsRequestShape(t *testing.T) {
	m := &mockStreamsAPI{responses: []*cloudwatchlogs.DescribeLogStreamsOutput{
		streamsPage("", types.LogStream{LogStreamName: aws.String("s1")}),
	}}
	if _, err := RecentStreams(context.Background(), m, "/app/api", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := m.inputs[0]
	if aws.ToString(in.LogGroupName) != "/app/api" {
		t.Fatalf("LogGroupName = %q", aws.ToString(in.LogGroupName))
	}
	if in.OrderBy != types.OrderByLastEventTime || !aws.ToBool(in.Descending) {
		t.Fatalf("listing must order by last event time descending: %+v", in)
	}
}
