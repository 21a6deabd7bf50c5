package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shouni/go-persona-studio/pkg/domain"
	"github.com/shouni/go-persona-studio/pkg/editing"
	"github.com/shouni/go-persona-studio/pkg/gallery"
	"github.com/shouni/go-persona-studio/pkg/prompts"
)

// --- セッション ---

func (s *Server) handleCreateSession(c echo.Context) error {
	id, _, err := s.sessions.Create()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"session_id": id})
}

// --- 認証情報 ---

type credentialRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

func (s *Server) handleSetCredential(c echo.Context) error {
	var req credentialRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := currentStudio(c).SetCredential(c.Request().Context(), req.APIKey); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleClearCredential(c echo.Context) error {
	currentStudio(c).ClearCredential()
	return c.NoContent(http.StatusNoContent)
}

// --- プロフィール ---

type profileRequest struct {
	Name        string `json:"name"`
	Age         uint   `json:"age"`
	Ethnicity   string `json:"ethnicity"`
	Persona     string `json:"persona"`
	Description string `json:"description"`
}

type referenceView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Origin   string `json:"origin"`
}

type profileView struct {
	Name         string          `json:"name"`
	Age          uint            `json:"age"`
	Ethnicity    string          `json:"ethnicity"`
	Persona      string          `json:"persona"`
	Description  string          `json:"description"`
	PrimaryImage *referenceView  `json:"primary_image,omitempty"`
	CanonImages  []referenceView `json:"canon_images"`
}

func viewOfReference(img domain.ReferenceImage) referenceView {
	return referenceView{
		ID:       img.ID,
		Name:     img.Name,
		MimeType: img.MimeType,
		Origin:   img.Origin.String(),
	}
}

func viewOfProfile(p domain.CharacterProfile) profileView {
	view := profileView{
		Name:        p.Name,
		Age:         p.Age,
		Ethnicity:   p.Ethnicity,
		Persona:     p.Persona,
		Description: p.Description,
		CanonImages: make([]referenceView, 0, len(p.CanonImages)),
	}
	if p.PrimaryImage != nil {
		primary := viewOfReference(*p.PrimaryImage)
		view.PrimaryImage = &primary
	}
	for _, img := range p.CanonImages {
		view.CanonImages = append(view.CanonImages, viewOfReference(img))
	}
	return view
}

func (s *Server) handleGetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, viewOfProfile(currentStudio(c).Profile()))
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile := currentStudio(c).UpdateProfile(req.Name, req.Age, req.Ethnicity, req.Persona, req.Description)
	return c.JSON(http.StatusOK, viewOfProfile(profile))
}

func (s *Server) handleGenerateAvatar(c echo.Context) error {
	img, err := currentStudio(c).GenerateAvatar(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, viewOfReference(img))
}

// --- 参照画像 ---

type uploadReferenceRequest struct {
	Name       string `json:"name" validate:"required"`
	Data       []byte `json:"data" validate:"required"`
	MimeType   string `json:"mime_type" validate:"required"`
	Collection string `json:"collection" validate:"required,oneof=primary canon local"`
}

type importReferenceRequest struct {
	URL        string `json:"url" validate:"required,url"`
	Name       string `json:"name"`
	MimeType   string `json:"mime_type"`
	Collection string `json:"collection" validate:"required,oneof=primary canon local"`
}

func (s *Server) addReference(c echo.Context, collection, name string, data []byte, mimeType string) (domain.ReferenceImage, error) {
	st := currentStudio(c)
	switch collection {
	case "primary":
		return st.SetPrimaryImage(name, data, mimeType), nil
	case "canon":
		return st.AddCanonImage(name, data, mimeType), nil
	default:
		return st.AddLocalImage(name, data, mimeType), nil
	}
}

func (s *Server) handleUploadReference(c echo.Context) error {
	var req uploadReferenceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	img, err := s.addReference(c, req.Collection, req.Name, req.Data, req.MimeType)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, viewOfReference(img))
}

// handleImportReference は URL から画像を取得して参照に追加します。
func (s *Server) handleImportReference(c echo.Context) error {
	var req importReferenceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	data, err := s.fetcher.FetchBytes(c.Request().Context(), req.URL)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch image: "+err.Error())
	}

	name := req.Name
	if name == "" {
		name = req.URL
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	img, err := s.addReference(c, req.Collection, name, data, mimeType)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, viewOfReference(img))
}

func (s *Server) handleListReferences(c echo.Context) error {
	refs := currentStudio(c).References()
	views := make([]referenceView, 0, len(refs))
	for _, img := range refs {
		views = append(views, viewOfReference(img))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleRemoveReference(c echo.Context) error {
	if err := currentStudio(c).RemoveImage(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- ロール割り当て ---

type roleRequest struct {
	ID string `json:"id" validate:"required"`
}

type rolesView struct {
	ContentRef string `json:"content_ref"`
	StyleRef   string `json:"style_ref"`
}

func (s *Server) handleAssignContent(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st := currentStudio(c)
	if err := st.AssignContent(req.ID); err != nil {
		return httpError(err)
	}
	content, style := st.Roles()
	return c.JSON(http.StatusOK, rolesView{ContentRef: content, StyleRef: style})
}

func (s *Server) handleAssignStyle(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st := currentStudio(c)
	if err := st.AssignStyle(req.ID); err != nil {
		return httpError(err)
	}
	content, style := st.Roles()
	return c.JSON(http.StatusOK, rolesView{ContentRef: content, StyleRef: style})
}

func (s *Server) handleGetRoles(c echo.Context) error {
	content, style := currentStudio(c).Roles()
	return c.JSON(http.StatusOK, rolesView{ContentRef: content, StyleRef: style})
}

// --- グループ選択 ---

type groupView struct {
	Members []string `json:"members"`
	Primary string   `json:"primary"`
}

func (s *Server) handleGetGroup(c echo.Context) error {
	members, primary := currentStudio(c).GroupMembers()
	return c.JSON(http.StatusOK, groupView{Members: members, Primary: primary})
}

func (s *Server) handleToggleGroupMember(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st := currentStudio(c)
	if _, err := st.ToggleGroupMember(req.ID); err != nil {
		return httpError(err)
	}
	members, primary := st.GroupMembers()
	return c.JSON(http.StatusOK, groupView{Members: members, Primary: primary})
}

func (s *Server) handleSetGroupPrimary(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st := currentStudio(c)
	st.SetGroupPrimary(req.ID)
	members, primary := st.GroupMembers()
	return c.JSON(http.StatusOK, groupView{Members: members, Primary: primary})
}

// --- 生成 ---

type generateEditRequest struct {
	Instruction  string `json:"instruction" validate:"required"`
	AspectRatio  string `json:"aspect_ratio"`
	RealismBoost bool   `json:"realism_boost"`
}

type generateGroupRequest struct {
	RealismBoost bool `json:"realism_boost"`
}

type generateVideoRequest struct {
	Instruction  string `json:"instruction" validate:"required"`
	UseReference bool   `json:"use_reference"`
	RealismBoost bool   `json:"realism_boost"`
}

type enhanceRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func (s *Server) handleGenerateEdit(c echo.Context) error {
	var req generateEditRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	asset, err := currentStudio(c).GenerateEdit(c.Request().Context(), req.Instruction, req.AspectRatio, req.RealismBoost)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, asset)
}

func (s *Server) handleGenerateGroup(c echo.Context) error {
	var req generateGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st := currentStudio(c)
	// メンバー数の検査はクライアント呼び出しより先に行う
	if err := st.ValidateGroup(); err != nil {
		return httpError(err)
	}
	asset, err := st.GenerateGroupPhoto(c.Request().Context(), req.RealismBoost)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, asset)
}

func (s *Server) handleGenerateVideo(c echo.Context) error {
	var req generateVideoRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	asset, err := currentStudio(c).GenerateVideo(c.Request().Context(), req.Instruction, req.UseReference, req.RealismBoost)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, asset)
}

func (s *Server) handleEnhance(c echo.Context) error {
	var req enhanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	enhanced, err := currentStudio(c).EnhancePrompt(c.Request().Context(), req.Prompt)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"prompt": enhanced})
}

func (s *Server) handleStates(c echo.Context) error {
	return c.JSON(http.StatusOK, currentStudio(c).States())
}

// --- ギャラリー ---

func (s *Server) handleGallery(c echo.Context) error {
	filter := gallery.Filter(c.QueryParam("filter"))
	if filter == "" {
		filter = gallery.FilterAll
	}
	sort := gallery.Sort(c.QueryParam("sort"))
	if sort == "" {
		sort = gallery.SortNewest
	}
	return c.JSON(http.StatusOK, currentStudio(c).Gallery(filter, sort))
}

func (s *Server) handleAssetData(c echo.Context) error {
	asset, ok := currentStudio(c).Asset(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "asset not found")
	}
	return c.Blob(http.StatusOK, asset.MimeType, asset.Data)
}

func (s *Server) handleToggleFavorite(c echo.Context) error {
	favorite, err := currentStudio(c).ToggleFavorite(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_favorite": favorite})
}

func (s *Server) handleUpscale(c echo.Context) error {
	asset, err := currentStudio(c).Upscale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, asset)
}

// --- 編集セッション ---

type applyEditRequest struct {
	State editing.EditState `json:"state"`
}

func (s *Server) handleEditState(c echo.Context) error {
	session, err := currentStudio(c).EditState(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleEditApply(c echo.Context) error {
	var req applyEditRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := currentStudio(c).ApplyEdit(c.Param("id"), req.State)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleEditCommit(c echo.Context) error {
	session, err := currentStudio(c).CommitEdit(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleEditUndo(c echo.Context) error {
	session, err := currentStudio(c).UndoEdit(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleEditRedo(c echo.Context) error {
	session, err := currentStudio(c).RedoEdit(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleEditReset(c echo.Context) error {
	session, err := currentStudio(c).ResetEdit(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleExport(c echo.Context) error {
	data, mimeType, err := currentStudio(c).ExportAsset(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="export.jpg"`)
	return c.Blob(http.StatusOK, mimeType, data)
}

// --- プロンプトカタログ ---

func (s *Server) handleSuggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, prompts.Catalog)
}

func (s *Server) handleDefaultPrompts(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"image_prompt":  prompts.DefaultImagePrompt,
		"video_prompt":  prompts.DefaultVideoPrompt,
		"aspect_ratios": prompts.SupportedAspectRatios,
	})
}

// bind はリクエストボディのデコードとバリデーションをまとめて行います。
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
