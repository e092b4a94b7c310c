package wizard

import (
	"net/http"

	"github.com/inkdraft/inkdraft/pkg/auth"
	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/generation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	manager   *Manager
	documents DocumentLoader
}

func (h *handler) session(c echo.Context) (*Session, error) {
	user := auth.UserFromContext(c)
	if user == nil {
		return nil, errcodes.Unauthorized("Authentication required")
	}
	return h.manager.Session(user.ID), nil
}

func (h *handler) retrieve(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) setTopic(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := SetTopicPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sess.SetTopic(params.Topic)
	if params.Instructions != nil {
		sess.SetInstructions(*params.Instructions)
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) setInstructions(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := SetInstructionsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sess.SetInstructions(params.Instructions)
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) attachDocuments(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}
	sess := h.manager.Session(user.ID)

	params := AttachDocumentsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	docs, err := h.documents.DocumentsByIDs(ctx, user.ID, params.DocumentIDs)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(docs) != len(params.DocumentIDs) {
		return errcodes.NotFound("Document")
	}

	sess.AttachDocuments(docs)
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) detachDocument(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	sess.RemoveDocument(c.Param("id"))
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) generateTitles(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if err := sess.GenerateTitles(c.Request().Context()); err != nil {
		if _, ok := errors.Cause(err).(*errcodes.Error); ok {
			return err
		}
		// Collaborator failures are recorded on the session; the view carries
		// the error message.
		return errors.WithStack(c.JSON(http.StatusBadGateway, sess.View()))
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) selectTitle(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := SelectTitlePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := sess.SelectTitle(*params.Index); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) setCustomTitle(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := CustomTitlePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := sess.SetCustomTitle(params.Title); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) generateOutline(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := GenerateOutlinePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err = sess.GenerateOutline(c.Request().Context(), generation.OutlinePreferences{
		WordCountLevel:  params.WordCountLevel,
		ComplexityLevel: params.ComplexityLevel,
		WritingTone:     params.WritingTone,
		TargetAudience:  params.TargetAudience,
		IncludeImages:   params.IncludeImages,
		IncludeCTAs:     params.IncludeCTAs,
	})
	if err != nil {
		if _, ok := errors.Cause(err).(*errcodes.Error); ok {
			return err
		}
		return errors.WithStack(c.JSON(http.StatusBadGateway, sess.View()))
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) updateChapter(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := UpdateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err = sess.UpdateChapter(c.Param("id"), UpdateChapterOptions{
		Title:       params.Title,
		Description: params.Description,
	})
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) addChapter(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := AddChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if (params.Position == PositionBefore || params.Position == PositionAfter) && params.TargetID == "" {
		return errcodes.ValidationError("A target chapter is required when inserting before or after.")
	}

	_, err = sess.AddChapter(AddChapterOptions{
		Title:       params.Title,
		Description: params.Description,
		Position:    params.Position,
		TargetID:    params.TargetID,
	})
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) removeChapter(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if err := sess.RemoveChapter(c.Param("id")); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) reorderChapters(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := ReorderChaptersPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := sess.ReorderChapters(*params.From, *params.To); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) addSubsection(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := AddSubsectionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if _, err := sess.AddSubsection(c.Param("id"), params.Title, params.Hint); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) removeSubsection(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if err := sess.RemoveSubsection(c.Param("id"), c.Param("subsectionId")); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) generateChapterContent(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if err := sess.GenerateChapterContent(c.Request().Context(), c.Param("id")); err != nil {
		if _, ok := errors.Cause(err).(*errcodes.Error); ok {
			return err
		}
		return errors.WithStack(c.JSON(http.StatusBadGateway, sess.View()))
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) updateChapterContent(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := UpdateChapterContentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := sess.UpdateChapterContent(c.Param("id"), params.Content); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) toggleChapterSkip(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if err := sess.ToggleChapterSkip(c.Param("id")); err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) generateCover(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := GenerateCoverPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err = sess.GenerateCover(c.Request().Context(), CoverOptions{
		Style:       params.Style,
		ColorScheme: params.ColorScheme,
		FontStyle:   params.FontStyle,
		AuthorName:  params.AuthorName,
		Subtitle:    params.Subtitle,
	})
	if err != nil {
		if _, ok := errors.Cause(err).(*errcodes.Error); ok {
			return err
		}
		return errors.WithStack(c.JSON(http.StatusBadGateway, sess.View()))
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) setActiveTab(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := SetActiveTabPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sess.SetActiveTab(params.Tab)
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) selectChapter(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	params := SelectChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sess.SetSelectedChapter(params.ChapterID)
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) save(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if err := sess.Save(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) load(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	loaded, err := sess.Load(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	if !loaded {
		return errcodes.NotFound("Saved session")
	}
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) clearProject(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	sess.ClearCurrentProject(c.Request().Context())
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}

func (h *handler) clearError(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	sess.ClearError()
	return errors.WithStack(c.JSON(http.StatusOK, sess.View()))
}
