package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/testutil"
	"github.com/collabridge/collabridge-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestTeamRepository_ListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewTeamRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Team{Name: "alpha", CreatedByID: alice.ID}, []uint64{alice.ID, bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Team{Name: "beta", CreatedByID: carol.ID}, []uint64{carol.ID}))

	teams, total, err := repo.ListForUser(ctx, bob.ID, utils.PaginationParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, teams, 1)
	assert.Equal(t, "alpha", teams[0].Name)
	assert.Len(t, teams[0].Members, 2)

	teams, _, err = repo.ListForUser(ctx, carol.ID, utils.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "beta", teams[0].Name)
}

func TestTeamRepository_UpdateReplacesMembers(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewTeamRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	team := &models.Team{Name: "alpha", CreatedByID: alice.ID}
	require.NoError(t, repo.Create(ctx, team, []uint64{alice.ID, bob.ID}))

	team.Name = "renamed"
	require.NoError(t, repo.Update(ctx, team, []uint64{alice.ID}))

	isMember, err := repo.IsMember(ctx, team.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	// nil keeps the member set
	require.NoError(t, repo.Update(ctx, team, nil))
	isMember, err = repo.IsMember(ctx, team.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	reloaded, err := repo.FindByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", reloaded.Name)
}

func TestProjectRepository_ListForUser_ThroughTeam(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teams := NewTeamRepository(db)
	projects := NewProjectRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")

	team := &models.Team{Name: "alpha", CreatedByID: alice.ID}
	require.NoError(t, teams.Create(ctx, team, []uint64{alice.ID, bob.ID}))
	require.NoError(t, projects.Create(ctx, &models.Project{Name: "p1", TeamID: team.ID, CreatedByID: alice.ID}, []uint64{carol.ID}))

	for _, u := range []*models.User{alice, bob, carol} {
		list, total, err := projects.ListForUser(ctx, u.ID, utils.PaginationParams{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total, u.Username)
		require.Len(t, list, 1)
		assert.Equal(t, "alpha", list[0].Team.Name)
	}

	list, _, err := projects.ListForUser(ctx, dave.ID, utils.PaginationParams{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskRepository_ListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	teams := NewTeamRepository(db)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	outsider := testutil.CreateUser(t, db, "outsider")

	team := &models.Team{Name: "alpha", CreatedByID: alice.ID}
	require.NoError(t, teams.Create(ctx, team, []uint64{alice.ID, bob.ID}))
	project := &models.Project{Name: "p1", TeamID: team.ID, CreatedByID: alice.ID}
	require.NoError(t, projects.Create(ctx, project, nil))

	// A task in a project carol cannot reach, but she is assigned to it
	other := &models.Project{Name: "p2", TeamID: 999, CreatedByID: outsider.ID}
	require.NoError(t, projects.Create(ctx, other, nil))

	require.NoError(t, tasks.Create(ctx, &models.Task{Title: "second", ProjectID: project.ID, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium, Order: 1}, nil))
	require.NoError(t, tasks.Create(ctx, &models.Task{Title: "first", ProjectID: project.ID, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium, Order: 0}, nil))
	require.NoError(t, tasks.Create(ctx, &models.Task{Title: "assigned", ProjectID: other.ID, CreatedByID: outsider.ID, Status: models.TaskStatusDone, Priority: models.TaskPriorityLow}, []uint64{carol.ID}))

	list, total, err := tasks.ListForUser(ctx, bob.ID, TaskFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)

	list, _, err = tasks.ListForUser(ctx, carol.ID, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "assigned", list[0].Title)
	require.Len(t, list[0].Assignments, 1)
	assert.Equal(t, "carol", list[0].Assignments[0].User.Username)

	done := models.TaskStatusDone
	list, _, err = tasks.ListForUser(ctx, outsider.ID, TaskFilter{Status: &done})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCommentRepository_CounterStaysConsistent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)
	comments := NewCommentRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	task := &models.Task{Title: "t", ProjectID: 1, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	require.NoError(t, tasks.Create(ctx, task, nil))

	created := make([]*models.Comment, 3)
	for i := range created {
		created[i] = &models.Comment{Content: "hi", AuthorID: alice.ID, TaskID: task.ID}
		require.NoError(t, comments.Create(ctx, created[i]))
	}

	reloaded, err := tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.CommentsCount)

	for _, c := range created {
		require.NoError(t, comments.Delete(ctx, c))
	}
	// A repeated delete must not decrement again
	err = comments.Delete(ctx, created[0])
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	reloaded, err = tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.CommentsCount)
}

func TestTaskRepository_RecountComments(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	drifted := &models.Task{Title: "drifted", ProjectID: 1, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	clean := &models.Task{Title: "clean", ProjectID: 1, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	require.NoError(t, tasks.Create(ctx, drifted, nil))
	require.NoError(t, tasks.Create(ctx, clean, nil))

	require.NoError(t, db.Create(&models.Comment{Content: "a", AuthorID: alice.ID, TaskID: drifted.ID}).Error)
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", drifted.ID).UpdateColumn("comments_count", 7).Error)

	fixed, err := tasks.RecountComments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fixed)

	reloaded, err := tasks.FindByID(ctx, drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CommentsCount)
}

func TestTaskRepository_UpdateOrders(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	a := &models.Task{Title: "a", ProjectID: 1, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	b := &models.Task{Title: "b", ProjectID: 1, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium, Order: 1}
	require.NoError(t, tasks.Create(ctx, a, nil))
	require.NoError(t, tasks.Create(ctx, b, nil))

	require.NoError(t, tasks.UpdateOrders(ctx, map[uint64]int{a.ID: 1, b.ID: 0}))

	loaded, err := tasks.FindByIDs(ctx, []uint64{a.ID, b.ID})
	require.NoError(t, err)
	orders := map[string]int{}
	for _, task := range loaded {
		orders[task.Title] = task.Order
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 0}, orders)
}

func TestCommentRepository_Create_RollsBackWhenCounterFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `comments`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `tasks` SET `comments_count`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	repo := NewCommentRepository(db)
	err = repo.Create(context.Background(), &models.Comment{Content: "hi", AuthorID: 1, TaskID: 2})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_PropagatesErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\?").
		WillReturnError(errors.New("connection reset"))

	repo := NewUserRepository(db)
	_, err = repo.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
