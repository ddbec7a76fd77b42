package dbmodels

type FileStorage struct {
	BaseSpaceModel
	Name        string
	TaskID      string `gorm:"type:varchar(36);index"`
	Type        FileType
	ContentType string
}

type FileType string

const (
	TaskReportAttachment FileType = "task_report_attachment"
	PayslipPdf           FileType = "payslip_pdf"
)

type UploadFileInfo struct {
	SpaceID     string
	TaskID      string
	FileName    string
	FileType    FileType
	ContentType string
}
