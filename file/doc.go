// Package file stores uploaded multipart file parts on local disk or in S3.
//
//	storage, err := file.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	obj, err := storage.Save(ctx, part, "uploads/"+accountID)
//
// Object keys are "<dir>/<digest prefix>-<sanitized filename>", so the same
// bytes uploaded twice under one directory map to one key.
package file
