// 手动触发全量进度重算脚本
//
// 测验统计和学习路径进度在正常请求路径上随写随算并缓存在聚合里。
// 批量导入历史数据或修数后，用此脚本一次性重算全部缓存字段。
//
// 用法: go run scripts/recalculate_progress.go

package main

import (
	"log"
	"skillforge_backend/internal/config"
	"skillforge_backend/internal/model"
	"skillforge_backend/pkg/database"
	"skillforge_backend/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("开始重算测验统计...")
	var quizzes []model.Quiz
	result := db.Where("is_active = ?", true).FindInBatches(&quizzes, 100, func(tx *gorm.DB, batch int) error {
		for i := range quizzes {
			quizzes[i].RecalculateAnalytics()
			if err := tx.Save(&quizzes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if result.Error != nil {
		log.Fatalf("测验统计重算失败: %v", result.Error)
	}
	log.Printf("测验统计重算完成，共 %d 条", result.RowsAffected)

	log.Println("开始重算学习路径进度...")
	var paths []model.LearningPath
	result = db.FindInBatches(&paths, 100, func(tx *gorm.DB, batch int) error {
		for i := range paths {
			paths[i].RecalculateProgress()
			if err := tx.Save(&paths[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if result.Error != nil {
		log.Fatalf("学习路径进度重算失败: %v", result.Error)
	}
	log.Printf("学习路径进度重算完成，共 %d 条", result.RowsAffected)

	log.Println("完成！")
}
