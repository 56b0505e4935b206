// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
)

// Material is a learning material (a "blog" on the API side).
type Material struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image,omitempty"`
	AuthorName    string    `json:"authorName"`
	Author        OwnerRef  `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	Likes         []string  `json:"likes"`
	LikesCount    int       `json:"likesCount"`
	Comments      []Comment `json:"comments"`
	CommentsCount int       `json:"commentsCount"`
}

// LikedBy reports whether userID is among the material's likes.
func (m *Material) LikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(m.Likes, userID)
}

// ApplyLikes replaces the like state with the server's view.
func (m *Material) ApplyLikes(s LikeState) {
	m.Likes = s.Likes
	m.LikesCount = s.LikesCount
}

// ApplyComments replaces the comment list with the server's view.
func (m *Material) ApplyComments(list []Comment) {
	m.Comments = list
	m.CommentsCount = len(list)
}

// RemoveComment drops the comment with the given id, if present.
func (m *Material) RemoveComment(id string) {
	m.Comments = slices.DeleteFunc(m.Comments, func(c Comment) bool { return c.ID == id })
	m.CommentsCount = len(m.Comments)
}

// OwnerRef identifies a material's author. The API sends either a bare id
// string or an embedded user object.
type OwnerRef struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON decodes a bare id string or an object with "_id" or "id".
func (o *OwnerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = OwnerRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*o = OwnerRef{ID: id}
		return nil
	}
	var aux struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.ID = aux.MongoID
	if o.ID == "" {
		o.ID = aux.ID
	}
	o.Name = aux.Name
	return nil
}

// Comment is a comment on a material.
type Comment struct {
	ID        string    `json:"_id"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeState is the like endpoint's response.
type LikeState struct {
	Likes      []string `json:"likes"`
	LikesCount int      `json:"likesCount"`
}

// MaterialInput is the editable part of a material.
type MaterialInput struct {
	Title       string
	Description string
	Image       *Upload
}

// Upload is an image file ready to be sent as a multipart part.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Stats are the admin dashboard totals.
type Stats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalBlogs    int `json:"totalBlogs"`
	TotalComments int `json:"totalComments"`
}
