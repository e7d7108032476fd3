package domain

// ApproverPort is the approval surface consumed by the HTTP module and
// the CLI
type ApproverPort interface {
	// ApproveOne promotes one snapshot's current image to baseline and
	// removes its diff
	ApproveOne(name string) ApprovalResult

	// ApproveMany applies ApproveOne to each name in input order without
	// short-circuiting; the returned slice matches the input in length
	// and order
	ApproveMany(names []string) []ApprovalResult

	// ListApprovable returns the snapshot names that have a current
	// image. A missing current directory lists as empty
	ListApprovable() ([]string, error)
}
