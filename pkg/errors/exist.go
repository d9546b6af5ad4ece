package errors

import "fmt"

type ErrStartedHuntExist struct {
	ID    string
	Exist bool
}

func (err ErrStartedHuntExist) Error() string {
	if err.Exist {
		return fmt.Sprintf("started hunt %s already exist", err.ID)
	}
	return fmt.Sprintf("started hunt %s does not exist", err.ID)
}

type ErrTeamExist struct {
	ID    string
	Exist bool
}

func (err ErrTeamExist) Error() string {
	if err.Exist {
		return fmt.Sprintf("team %s already exist", err.ID)
	}
	return fmt.Sprintf("team %s does not exist", err.ID)
}

type ErrSubmissionExist struct {
	ID    string
	Exist bool
}

func (err ErrSubmissionExist) Error() string {
	if err.Exist {
		return fmt.Sprintf("submission %s already exist", err.ID)
	}
	return fmt.Sprintf("submission %s does not exist", err.ID)
}

// ErrBlobExist reports on the existence of a photo blob, by reference.
type ErrBlobExist struct {
	Ref   string
	Exist bool
}

func (err ErrBlobExist) Error() string {
	if err.Exist {
		return fmt.Sprintf("photo blob %s already exist", err.Ref)
	}
	return fmt.Sprintf("photo blob %s does not exist", err.Ref)
}
