package server

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dao interface {
	DB() *gorm.DB

	// SavePredictions 保存一次请求中所有的预测记录
	SavePredictions(records []*PredictionRecord) error

	// QueryPredictionsByRequestId 按下标顺序返回某次请求的预测记录
	QueryPredictionsByRequestId(requestId string) ([]*PredictionRecord, error)

	Close() error
}

type daoImpl struct {
	db     *gorm.DB
	logger *log.Logger
}

var _ Dao = &daoImpl{}

func NewDao(driver, dsn string) (Dao, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMysql:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("不支持的数据库类型：%s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "", 0), logger.Config{
			LogLevel: logger.Silent,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库错误")
	}

	// 创建表格等
	err = db.AutoMigrate(&PredictionRecordDO{})
	if err != nil {
		return nil, errors.Wrap(err, "创建表格时出现异常")
	}

	return &daoImpl{
		db:     db,
		logger: log.New(os.Stdout, "Dao: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}, nil
}

func (d *daoImpl) DB() *gorm.DB {
	return d.db
}

func (d *daoImpl) SavePredictions(records []*PredictionRecord) error {
	const MaxOneRun = 500

	if len(records) == 0 {
		return nil
	}

	doarr := make([]*PredictionRecordDO, len(records))
	for i, record := range records {
		doarr[i] = newPredictionRecordDO(record)
	}

	d.logger.Printf("插入请求%s的%d条预测记录", records[0].RequestId, len(doarr))
	err := d.db.CreateInBatches(doarr, MaxOneRun).Error
	if err != nil {
		return errors.Wrap(err, "保存预测记录出错")
	}
	return nil
}

func (d *daoImpl) QueryPredictionsByRequestId(requestId string) ([]*PredictionRecord, error) {
	doarr := make([]*PredictionRecordDO, 0)
	err := d.db.Order("item_index asc").Find(&doarr, &PredictionRecordDO{
		RequestId: requestId,
	}).Error
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("查询预测记录出错，请求ID为%s", requestId))
	}

	result := make([]*PredictionRecord, len(doarr))
	for i, do := range doarr {
		result[i] = do.toRecord()
	}
	return result, nil
}

func (d *daoImpl) Close() error {
	s, err := d.db.DB()
	if err != nil {
		return err
	}
	return s.Close()
}
