package global

import "context"

type startedHuntKey struct{}
type teamKey struct{}
type taskKey struct{}
type submissionKey struct{}

func WithStartedHuntID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, startedHuntKey{}, id)
}

func WithTeamID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, teamKey{}, id)
}

func WithTaskID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskKey{}, id)
}

func WithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionKey{}, id)
}
