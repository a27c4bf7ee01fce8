package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"colegios-api/internal/colegio"
	"colegios-api/internal/logs"
	"colegios-api/internal/query"
)

type SchoolController struct {
	Service    SchoolServicePort
	LogService LogServicePort
}

func (sc *SchoolController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// List responds with a plain array: the console client decodes the body
// directly into records, there is no envelope.
func (sc *SchoolController) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	province := strings.TrimSpace(c.Query("Provincia"))
	sortBy := strings.TrimSpace(c.Query("sort_by"))
	desc := strings.EqualFold(strings.TrimSpace(c.Query("desc")), "true")

	records, err := sc.Service.List(q, province, sortBy, desc)
	if err != nil {
		if errors.Is(err, query.ErrUnknownField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (sc *SchoolController) Get(c *gin.Context) {
	id, ok := sc.idParam(c)
	if !ok {
		return
	}

	rec, err := sc.Service.Get(id)
	if err != nil {
		sc.notFoundOr500(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (sc *SchoolController) Create(c *gin.Context) {
	var rec colegio.School
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec.Province = strings.TrimSpace(rec.Province)
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Province == "" || rec.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provincia y Colegio son campos obligatorios"})
		return
	}
	if rec.Students < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad de Estudiantes no puede ser negativa"})
		return
	}

	created, err := sc.Service.Create(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sc.logMutation("CREATE_COLEGIO", fmt.Sprintf("Colegio creado: %s (id %d)", created.Name, created.ID), created)

	c.JSON(http.StatusCreated, created)
}

func (sc *SchoolController) UpdatePartial(c *gin.Context) {
	id, ok := sc.idParam(c)
	if !ok {
		return
	}

	var patch colegio.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if patch.Province != nil && strings.TrimSpace(*patch.Province) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provincia no puede quedar vacía"})
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Colegio no puede quedar vacío"})
		return
	}
	if patch.Students != nil && *patch.Students < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad de Estudiantes no puede ser negativa"})
		return
	}

	updated, err := sc.Service.UpdatePartial(id, patch)
	if err != nil {
		sc.notFoundOr500(c, err)
		return
	}

	sc.logMutation("UPDATE_COLEGIO", fmt.Sprintf("Colegio actualizado: id %d", id), patch)

	c.JSON(http.StatusOK, updated)
}

func (sc *SchoolController) Delete(c *gin.Context) {
	id, ok := sc.idParam(c)
	if !ok {
		return
	}

	if err := sc.Service.Delete(id); err != nil {
		sc.notFoundOr500(c, err)
		return
	}

	sc.logMutation("DELETE_COLEGIO", fmt.Sprintf("Colegio eliminado: id %d", id), gin.H{"id": id})

	c.JSON(http.StatusOK, gin.H{"message": "colegio eliminado"})
}

func (sc *SchoolController) idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid id is required"})
		return 0, false
	}
	return id, true
}

func (sc *SchoolController) notFoundOr500(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (sc *SchoolController) logMutation(action, message string, payload interface{}) {
	entry := logs.SystemLog{Level: "INFO", Service: "colegios", Action: action, Message: message}
	if err := sc.LogService.Log(entry, payload); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}
