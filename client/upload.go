package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// MaxUploadSize 单个文件上限 20MB
const MaxUploadSize = 20 * 1024 * 1024

// File 待上传文件
type File struct {
	// Field 表单字段名
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}

// Upload 以 multipart 表单 POST 文件及附加字段，响应与其他写操作相同
func (c *Client) Upload(ctx context.Context, path string, file File, fields map[string]string) (MutationResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return MutationResult{}, c.requestError(0, fmt.Errorf("write field %s: %w", k, err))
		}
	}

	part, err := w.CreatePart(fileHeader(file))
	if err != nil {
		return MutationResult{}, c.requestError(0, fmt.Errorf("create part: %w", err))
	}
	n, err := io.Copy(part, io.LimitReader(file.Content, MaxUploadSize+1))
	if err != nil {
		return MutationResult{}, c.requestError(0, fmt.Errorf("copy file: %w", err))
	}
	if n > MaxUploadSize {
		return MutationResult{}, c.requestError(http.StatusRequestEntityTooLarge,
			fmt.Errorf("file %s exceeds %dMB", file.Name, MaxUploadSize/1024/1024))
	}
	if err := w.Close(); err != nil {
		return MutationResult{}, c.requestError(0, fmt.Errorf("close multipart: %w", err))
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Status: resp.status, Message: messageOf(resp.body), Body: resp.body}, nil
}

func fileHeader(file File) map[string][]string {
	field := file.Field
	if field == "" {
		field = "file"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return map[string][]string{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name)},
		"Content-Type":        {contentType},
	}
}

// UploadClinicLogo 诊所 logo
func (c *Client) UploadClinicLogo(ctx context.Context, file File) (MutationResult, error) {
	file.Field = "logo"
	return c.Upload(ctx, Clinics.Path+"/mine/logo", file, nil)
}

// UploadPatientPhoto 患宠照片
func (c *Client) UploadPatientPhoto(ctx context.Context, patientID string, file File) (MutationResult, error) {
	file.Field = "photo"
	return c.Upload(ctx, Patients.Path+"/"+url.PathEscape(patientID)+"/photo", file, nil)
}

// UploadStudy 患宠的医学检查 PDF
func (c *Client) UploadStudy(ctx context.Context, patientID, title string, file File) (MutationResult, error) {
	file.Field = "file"
	if file.ContentType == "" {
		file.ContentType = "application/pdf"
	}
	return c.Upload(ctx, Studies.Path+"/"+url.PathEscape(patientID), file, map[string]string{"title": title})
}
