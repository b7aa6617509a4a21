package models

import (
	"encoding/json"
	"time"
)

// SuperAdminRole is the value of "user".role that grants the global
// super-admin flag. It is independent of any workspace membership.
const SuperAdminRole = "SUPER ADMIN"

// User is owned by the external auth provider. We only read it.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Image         *string   `json:"image"`
	Role          *string   `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role != nil && *u.Role == SuperAdminRole
}

// UserSummary is the slim projection used by /user/getMany.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// WorkspaceMember is a user joined with their role in one workspace.
type WorkspaceMember struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  int     `json:"role"`
	Image *string `json:"image"`
}

// WorkspaceInfo is the "information" blob on a workspace. Industry is the
// only key the dashboard reads; any other keys survive a round trip in
// Extra so the stored JSON shape is unchanged.
type WorkspaceInfo struct {
	Industry string
	Extra    map[string]any
}

func (i WorkspaceInfo) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Extra)+1)
	for k, v := range i.Extra {
		out[k] = v
	}
	if i.Industry != "" {
		out["industry"] = i.Industry
	}
	return json.Marshal(out)
}

func (i *WorkspaceInfo) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = WorkspaceInfo{}
	if v, ok := raw["industry"].(string); ok {
		i.Industry = v
		delete(raw, "industry")
	}
	if len(raw) > 0 {
		i.Extra = raw
	}
	return nil
}

type Workspace struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Image       *string       `json:"image"`
	Information WorkspaceInfo `json:"information"`
	CreatedAt   time.Time     `json:"createdAt"`
	CreatedBy   *string       `json:"createdBy"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	UpdatedBy   *string       `json:"updatedBy"`
}

// WorkspaceUser is one membership row. Duplicate (workspace, user) rows
// are allowed; readers treat membership as an existence check.
type WorkspaceUser struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspaceId"`
	UserID      string `json:"userId"`
	Role        int    `json:"role"`
}

// WorkspaceClient mirrors client memberships in workspace_clients.
type WorkspaceClient struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspaceId"`
	ClientID    string    `json:"clientId"`
	Role        int       `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   *string   `json:"createdBy"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   *string   `json:"updatedBy"`
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Category string

const (
	CategoryReels  Category = "REELS"
	CategoryShorts Category = "SHORTS"
	CategoryPosts  Category = "POSTS"
	CategoryAds    Category = "ADS"
	CategoryBlogs  Category = "BLOGS"
	CategoryVideos Category = "VIDEOS"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryReels, CategoryShorts, CategoryPosts, CategoryAds, CategoryBlogs, CategoryVideos:
		return true
	}
	return false
}

// TaskStatus is the internal production stage. Transitions are not
// ordered; any permitted editor may set any value.
type TaskStatus string

const (
	TaskStatusIdeation          TaskStatus = "IDEATION"
	TaskStatusDevelopment       TaskStatus = "DEVELOPMENT"
	TaskStatusInternalReview    TaskStatus = "INTERNAL REVIEW"
	TaskStatusInternalRevision  TaskStatus = "INTERNAL REVISION"
	TaskStatusClientReview      TaskStatus = "CLIENT REVIEW"
	TaskStatusRevisionRequested TaskStatus = "REVISION REQUESTED"
	TaskStatusApprovedByClient  TaskStatus = "APPROVED BY CLIENT"
	TaskStatusReadyToPublish    TaskStatus = "READY TO PUBLISH"
	TaskStatusHold              TaskStatus = "HOLD"
	TaskStatusPublished         TaskStatus = "PUBLISHED"
	TaskStatusShelved           TaskStatus = "SHELVED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusIdeation, TaskStatusDevelopment, TaskStatusInternalReview,
		TaskStatusInternalRevision, TaskStatusClientReview, TaskStatusRevisionRequested,
		TaskStatusApprovedByClient, TaskStatusReadyToPublish, TaskStatusHold,
		TaskStatusPublished, TaskStatusShelved:
		return true
	}
	return false
}

type ClientStatus string

const (
	ClientStatusApproved ClientStatus = "APPROVED"
	ClientStatusChanges  ClientStatus = "CHANGES"
	ClientStatusDeclined ClientStatus = "DECLINED"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusApproved, ClientStatusChanges, ClientStatusDeclined:
		return true
	}
	return false
}

// TaskFile is the denormalized snapshot of a MediaContent row stored on
// the task. The media_content row stays authoritative.
type TaskFile struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Type         MediaType `json:"type"`
	OriginalName string    `json:"originalName"`
}

type Caption struct {
	Platform string `json:"platform"`
	Text     string `json:"text"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type ClientComment struct {
	UserID  string    `json:"userId"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

type Task struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	WorkspaceID   int64           `json:"workspaceId"`
	Priority      Priority        `json:"priority"`
	Category      Category        `json:"category"`
	Files         []TaskFile      `json:"files"`
	PublishDate   *time.Time      `json:"publishDate"`
	DeadlineDate  *time.Time      `json:"deadlineDate"`
	Captions      []Caption       `json:"captions"`
	SocialLinks   []SocialLink    `json:"socialLinks"`
	ClientComment []ClientComment `json:"clientComment"`
	TaskStatus    TaskStatus      `json:"taskstatus"`
	ClientStatus  ClientStatus    `json:"clientStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     *string         `json:"createdBy"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	UpdatedBy     *string         `json:"updatedBy"`
}

// AssignedTask is a task joined with its workspace display fields, as
// returned by /tasks/get.
type AssignedTask struct {
	Task
	WorkspaceName  string  `json:"workspaceName"`
	WorkspaceImage *string `json:"workspaceImage"`
}

type TaskAssignee struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy *string   `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy *string   `json:"updatedBy"`
}

type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypePDF   MediaType = "PDF"
	MediaTypeAudio MediaType = "AUDIO"
	MediaTypeOther MediaType = "OTHER"
)

type MediaContent struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	Type         MediaType `json:"type"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (m MediaContent) Snapshot() TaskFile {
	return TaskFile{
		ID:           m.ID,
		URL:          m.URL,
		Type:         m.Type,
		OriginalName: m.OriginalName,
	}
}
