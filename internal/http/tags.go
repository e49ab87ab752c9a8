package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type TagsController struct {
	store TagStore
	queue TaskQueue
}

// NewTagsController creates a TagsController. queue may be nil, which
// disables the cleanup endpoint.
func NewTagsController(store TagStore, queue TaskQueue) *TagsController {
	return &TagsController{store: store, queue: queue}
}

// GetAllTags returns all tags, or those matching ?q=.
// GET /api/tags
func (tc *TagsController) GetAllTags(c *gin.Context) {
	ctx := c.Request.Context()
	if q := c.Query("q"); q != "" {
		tags, err := tc.store.SearchTags(ctx, q)
		if err != nil {
			respondInternalError(c, err, "search tags")
			return
		}
		c.JSON(http.StatusOK, tags)
		return
	}

	tags, err := tc.store.ListTags(ctx)
	if err != nil {
		respondInternalError(c, err, "get all tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// CleanupOrphanTags queues removal of tags no photo links to.
// POST /api/tags/cleanup
func (tc *TagsController) CleanupOrphanTags(c *gin.Context) {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled", "tasks_disabled")
		return
	}

	id, err := tc.queue.EnqueueTagCleanup()
	if err != nil {
		respondInternalError(c, err, "enqueue tag cleanup")
		return
	}
	respondAccepted(c, gin.H{"task_id": id})
}
