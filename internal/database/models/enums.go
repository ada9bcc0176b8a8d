package models

// RequestStatus represents the lifecycle state of a request.
// pending may move to approved or rejected; both are terminal.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsValid checks if the RequestStatus is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// MembershipRole represents the role a user holds within a team
type MembershipRole string

const (
	MembershipRoleOwner  MembershipRole = "owner"
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

// IsValid checks if the MembershipRole is valid
func (r MembershipRole) IsValid() bool {
	switch r {
	case MembershipRoleOwner, MembershipRoleAdmin, MembershipRoleMember:
		return true
	}
	return false
}

// CanReview reports whether the role may review requests targeting the team
func (r MembershipRole) CanReview() bool {
	return r == MembershipRoleOwner || r == MembershipRoleAdmin
}

// EmployeeRequestType categorizes general administrative requests
type EmployeeRequestType string

const (
	EmployeeRequestTypeTimeOff   EmployeeRequestType = "time_off"
	EmployeeRequestTypeResource  EmployeeRequestType = "resource"
	EmployeeRequestTypeEquipment EmployeeRequestType = "equipment"
	EmployeeRequestTypeSupport   EmployeeRequestType = "support"
	EmployeeRequestTypeOther     EmployeeRequestType = "other"
)

// IsValid checks if the EmployeeRequestType is valid
func (t EmployeeRequestType) IsValid() bool {
	switch t {
	case EmployeeRequestTypeTimeOff, EmployeeRequestTypeResource,
		EmployeeRequestTypeEquipment, EmployeeRequestTypeSupport, EmployeeRequestTypeOther:
		return true
	}
	return false
}

// RequestPriority represents the urgency of an employee request
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "low"
	RequestPriorityNormal RequestPriority = "normal"
	RequestPriorityHigh   RequestPriority = "high"
	RequestPriorityUrgent RequestPriority = "urgent"
)

// IsValid checks if the RequestPriority is valid
func (p RequestPriority) IsValid() bool {
	switch p {
	case RequestPriorityLow, RequestPriorityNormal, RequestPriorityHigh, RequestPriorityUrgent:
		return true
	}
	return false
}

// NotificationType tags the event that produced a notification
type NotificationType string

const (
	NotificationTypeRequestApproved NotificationType = "request_approved"
	NotificationTypeRequestRejected NotificationType = "request_rejected"
)
