package service

// CapsuleServiceWrapper defines middleware composition for CapsuleService.
// Implementations wrap an existing CapsuleService to add behavior such as
// validating.
type CapsuleServiceWrapper interface {
	Wrap(CapsuleService) CapsuleService // returns a decorated CapsuleService applying additional behavior
}
