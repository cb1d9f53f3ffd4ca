package service

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/emzola/locallibrary/data"
	"github.com/emzola/locallibrary/internal/validator"
)

// CoverUpload is a cover image taken from a multipart form.
type CoverUpload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

var coverMediaTypes = []string{"image/jpeg", "image/png"}

// UpdateBookCover service stores a JPEG or PNG cover in object storage and
// records its URL on the book.
func (s *service) UpdateBookCover(ctx context.Context, id int64, cover CoverUpload) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	buffer, mtype, err := s.detectMimeType(cover.File, cover.Header)
	if err != nil {
		return nil, ErrBadRequest
	}
	if !validator.Mime(mtype, coverMediaTypes...) {
		return nil, ErrUnsupportedMediaType
	}
	coverURL, err := s.uploadFileToS3(ctx, buffer, mtype, cover.Header)
	if err != nil {
		return nil, err
	}
	book.CoverURL = coverURL
	err = s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, repoError(err)
	}
	s.logger.PrintInfo("book cover updated", map[string]string{
		"book_id":   strconv.FormatInt(book.ID, 10),
		"cover_url": coverURL,
	})
	return book, nil
}
