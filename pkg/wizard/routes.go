package wizard

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers wizard routes on a pre-configured group.
// The group is expected to already require authentication.
func RegisterRoutesWithGroup(g *echo.Group, manager *Manager, documents DocumentLoader) {
	h := &handler{
		manager:   manager,
		documents: documents,
	}

	g.GET("", h.retrieve)
	g.DELETE("", h.clearProject)

	g.POST("/topic", h.setTopic)
	g.POST("/instructions", h.setInstructions)
	g.POST("/documents", h.attachDocuments)
	g.DELETE("/documents/:id", h.detachDocument)

	g.POST("/titles/generate", h.generateTitles)
	g.POST("/titles/select", h.selectTitle)
	g.POST("/titles/custom", h.setCustomTitle)

	g.POST("/outline/generate", h.generateOutline)

	g.POST("/chapters", h.addChapter)
	g.PATCH("/chapters/:id", h.updateChapter)
	g.DELETE("/chapters/:id", h.removeChapter)
	g.POST("/chapters/reorder", h.reorderChapters)
	g.POST("/chapters/select", h.selectChapter)
	g.POST("/chapters/:id/subsections", h.addSubsection)
	g.DELETE("/chapters/:id/subsections/:subsectionId", h.removeSubsection)
	g.POST("/chapters/:id/generate", h.generateChapterContent)
	g.PUT("/chapters/:id/content", h.updateChapterContent)
	g.POST("/chapters/:id/skip", h.toggleChapterSkip)

	g.POST("/cover/generate", h.generateCover)

	g.POST("/tab", h.setActiveTab)
	g.POST("/save", h.save)
	g.POST("/load", h.load)
	g.POST("/error/clear", h.clearError)
}
