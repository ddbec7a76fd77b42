package filestorage

import (
	"bytes"
	"context"
	"fmt"

	s3client "estate-office-backend/s3"
	filesdbstorage "estate-office-backend/lib/file-storage/storage"
	dbmodels "estate-office-backend/models/db"

	"estate-office-backend/db"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	UploadTaskAttachment(ctx context.Context, spaceID, taskID, fileName, contentType string, file []byte) (id string, err error)
	GetFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.FileStorage, error)
	GetTaskAttachments(spaceID, taskID string) ([]dbmodels.FileStorage, error)
	MakeSpaceBucket(ctx context.Context, spaceID string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store: filesdbstorage.NewInstance(db.DB),
	}
}

type impl struct {
	store filesdbstorage.Provider
}

func (i impl) UploadTaskAttachment(ctx context.Context, spaceID, taskID, fileName, contentType string, file []byte) (id string, err error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("task_id", taskID)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	rec := dbmodels.FileStorage{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:        fileName,
		TaskID:      taskID,
		Type:        dbmodels.TaskReportAttachment,
		ContentType: contentType,
	}
	id, err = i.store.SaveFile(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения метаданных файла")
		return "", err
	}
	_, err = s3client.Client.PutObject(ctx, getSpaceBucketName(spaceID), id,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		logger.WithError(err).Error("ошибка загрузки файла в хранилище")
		return "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	return id, nil
}

func (i impl) GetFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.FileStorage, error) {
	rec, err := i.store.GetByID(spaceID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, errors.New("файл не найден")
	}
	object, err := s3client.Client.GetObject(ctx, getSpaceBucketName(spaceID), fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	defer object.Close()
	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(object); err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return buf.Bytes(), rec, nil
}

func (i impl) GetTaskAttachments(spaceID, taskID string) ([]dbmodels.FileStorage, error) {
	return i.store.GetListByTask(spaceID, taskID)
}

func (i impl) MakeSpaceBucket(ctx context.Context, spaceID string) error {
	bucketName := getSpaceBucketName(spaceID)
	exists, err := s3client.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s3client.Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
}

func getSpaceBucketName(spaceID string) string {
	return fmt.Sprintf("estate-office-%s", spaceID)
}
