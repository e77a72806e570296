package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docscan/docvault/internal/models"
	"github.com/docscan/docvault/internal/search"
	"github.com/docscan/docvault/internal/storage"
)

const maxUploadBytes = 10 << 20

// allowedUploadTypes are the MIME types the extraction adapter supports.
var allowedUploadTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"application/pdf": true,
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.storage.ListDocuments(r.Context())
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	fileType := header.Header.Get("Content-Type")
	if fileType == "" {
		fileType = mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename)))
	}
	if !allowedUploadTypes[fileType] {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", fileType))
		return
	}

	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		s.logger.Error("failed to create uploads dir", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.uploadsDir, name)
	dst, err := os.Create(path)
	if err != nil {
		s.logger.Error("failed to create upload file", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	size, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		s.logger.Error("failed to store upload", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	doc := &models.Document{
		Title:        title,
		OriginalName: header.Filename,
		FileType:     fileType,
		FileSize:     size,
		FilePath:     path,
	}
	if err := s.storage.CreateDocument(r.Context(), doc); err != nil {
		_ = os.Remove(path)
		s.logger.Error("failed to create document", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("document uploaded",
		zap.Int64("id", doc.ID),
		zap.String("name", header.Filename),
		zap.Int64("size", size))
	if s.kick != nil {
		s.kick()
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

type documentPatch struct {
	Title            *string   `json:"title"`
	Categories       *[]string `json:"categories"`
	Tags             *[]string `json:"tags"`
	ProcessingStatus *string   `json:"processingStatus"`
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	var patch documentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update := storage.DocumentUpdate{
		Title:      patch.Title,
		Categories: patch.Categories,
		Tags:       patch.Tags,
	}
	if patch.ProcessingStatus != nil {
		status := models.ProcessingStatus(*patch.ProcessingStatus)
		if !status.Valid() {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid processing status: %s", status))
			return
		}
		update.ProcessingStatus = &status
	}
	doc, err := s.storage.UpdateDocument(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("update document failed", zap.Int64("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Resetting a record to pending makes the worker pick it up again.
	if update.ProcessingStatus != nil && *update.ProcessingStatus == models.StatusPending && s.kick != nil {
		s.kick()
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.storage.DeleteDocument(r.Context(), id); err != nil {
		s.logger.Error("delete document failed", zap.Int64("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove stored file", zap.String("path", doc.FilePath), zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var filter models.SearchFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", filter.Query))
	docs, err := search.Search(r.Context(), s.storage, filter)
	if err != nil {
		if errors.Is(err, search.ErrInvalidFilter) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.storage.CountByStatus(r.Context())
	if err != nil {
		s.logger.Error("stats: count by status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var total int64
	byStatus := map[string]int64{}
	for status, n := range counts {
		byStatus[string(status)] = n
		total += n
	}
	resp := map[string]interface{}{
		"documents": total,
		"byStatus":  byStatus,
	}
	if diskBytes, err := storage.DiskUsageBytes(s.dbPath, s.uploadsDir); err == nil {
		resp["diskUsageBytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.storage.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, cats)
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	cat := &models.Category{Name: req.Name, Color: req.Color}
	if err := s.storage.CreateCategory(r.Context(), cat); err != nil {
		s.logger.Error("create category failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, err := s.storage.UpdateCategory(r.Context(), id, req.Name, req.Color)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "category not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := s.storage.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "category not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleServeFile serves a stored raw file by its on-disk name. The name is
// reduced to its base so a path cannot escape the uploads directory.
func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))
	if name == "." || name == ".." || name == "/" {
		s.respondError(w, http.StatusBadRequest, "invalid file name")
		return
	}
	path := filepath.Join(s.uploadsDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.respondError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
