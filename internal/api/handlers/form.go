package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/form"
	"resume-builder/internal/logging"
	"resume-builder/pkg/models"
)

// Next page after a successful submit
const templatesPath = "/templates"

// GetFormHandler returns the current step of the session form
func GetFormHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, models.SessionResponse{
			SessionID: c.Param("id"),
			Role:      engine.Role(),
			Step:      engine.View(),
		})
	}
}

// SetFieldHandler writes one scalar field such as personalInfo.email
func SetFieldHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		var req models.SetFieldRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := engine.SetField(req.Path, req.Value); err != nil {
			return respondError(c, err)
		}
		return mutated(c, engine, true, nil)
	}
}

// SetListInputHandler updates the pending text of a list section
func SetListInputHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		var req models.ListItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		value := ""
		if req.Value != nil {
			value = *req.Value
		}
		if err := engine.SetListInput(models.ListSection(req.Section), value); err != nil {
			return respondError(c, err)
		}
		return mutated(c, engine, true, nil)
	}
}

// AddListItemHandler appends to a list section. Without a value the pending
// input is committed instead.
func AddListItemHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		var req models.ListItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		section := models.ListSection(req.Section)
		var added bool
		if req.Value == nil {
			added, err = engine.CommitListInput(section)
		} else {
			added, err = engine.AddListItem(section, *req.Value)
		}
		if err != nil {
			return respondError(c, err)
		}
		return mutated(c, engine, added, nil)
	}
}

// RemoveListItemHandler deletes one item from a list section
func RemoveListItemHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		var path models.ListItemPath
		if err := bindAndValidate(c, &path); err != nil {
			return respondError(c, err)
		}
		removed := engine.RemoveListItem(models.ListSection(path.Section), path.Index)
		return mutated(c, engine, removed, nil)
	}
}

// AddEntryHandler appends a blank record to a repeatable section
func AddEntryHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		index, err := engine.AddRepeatableEntry(models.EntrySection(c.Param("section")))
		if err != nil {
			return respondError(c, err)
		}
		return mutated(c, engine, true, &index)
	}
}

// EditEntryHandler writes one field of an existing record
func EditEntryHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		index, err := pathIndex(c)
		if err != nil {
			return respondError(c, err)
		}
		var req models.EditEntryRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		section := models.EntrySection(c.Param("section"))
		if err := engine.EditRepeatableField(section, index, req.Field, req.Value); err != nil {
			return respondError(c, err)
		}
		return mutated(c, engine, true, &index)
	}
}

// StepHandler moves between form steps
func StepHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		var req models.StepRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		before := engine.Step()
		var after int
		switch req.Action {
		case "next":
			after = engine.Next()
		case "previous":
			after = engine.Previous()
		default:
			after = engine.GoToStep(req.Step)
		}
		return mutated(c, engine, before != after, nil)
	}
}

// SubmitHandler persists the document and points the client at template
// selection
func SubmitHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		engine, err := d.engineFor(c)
		if err != nil {
			return respondError(c, err)
		}

		if err := engine.Submit(c.Request().Context()); err != nil {
			return respondError(c, err)
		}

		logging.GetGlobalLogger().WithContext(c.Request().Context()).Info("Resume submitted", map[string]interface{}{
			"session_id": c.Param("id"),
			"role":       engine.Role().ID,
			"missing":    len(engine.Missing()),
		})
		return c.JSON(http.StatusOK, models.SubmitResponse{Status: "SUCCESS", Next: templatesPath})
	}
}

func mutated(c echo.Context, engine *form.Engine, changed bool, index *int) error {
	return c.JSON(http.StatusOK, models.FormMutationResponse{
		Changed: changed,
		Index:   index,
		Step:    engine.View(),
	})
}

func pathIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, errBadBody
	}
	return index, nil
}
