package commands

import (
	"github.com/jrsteele09/go-social-client/social"
	"github.com/spf13/cobra"
)

func profilesCmd() *cobra.Command {
	var (
		q     social.Query
		pages int
	)
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app.manager.Probe(ctx)
			if pages < 1 {
				pages = app.cfg.GetPageLimit()
			}

			profiles := app.social.Profiles(q)
			defer profiles.Close()
			page, err := loadPages(ctx, profiles, pages)
			if err != nil {
				return err
			}
			if err := app.out.print(page, profilesTable(page.Items)); err != nil {
				return err
			}
			pagesFooter(page)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.FollowedBy, "followed-by", 0, "only profiles this profile follows")
	cmd.Flags().IntVar(&q.Following, "following", 0, "only profiles that follow this profile")
	cmd.Flags().StringVar(&q.Ordering, "ordering", "", "sort field, e.g. -followers_count")
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages to load (default client.page_limit)")
	return cmd
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit a profile",
	}
	cmd.AddCommand(profileShowCmd(), profileEditCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [profile-id]",
		Short: "Show a profile (your own when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id int
			if len(args) == 1 {
				var err error
				if id, err = idArg(args[0]); err != nil {
					return err
				}
				app.manager.Probe(ctx)
			} else {
				s, err := requireSession(ctx)
				if err != nil {
					return err
				}
				id = s.ProfileID
			}

			p, err := app.social.GetProfile(ctx, id)
			if err != nil {
				return err
			}
			return app.out.print(p, profilesTable([]social.Profile{p}))
		},
	}
}

func profileEditCmd() *cobra.Command {
	var name, content, image string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change your profile name, bio, image or username",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := requireSession(ctx)
			if err != nil {
				return err
			}
			if username, _ := cmd.Flags().GetString("username"); username != "" {
				if err := app.social.ChangeUsername(ctx, username); err != nil {
					return validationError(err)
				}
			}

			current, err := app.social.GetProfile(ctx, s.ProfileID)
			if err != nil {
				return err
			}
			in := social.ProfileInput{Name: current.Name, Content: current.Content}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("content") {
				in.Content = content
			}
			if err := readImage(image, &in.Image, &in.ImageName); err != nil {
				return err
			}
			p, err := app.social.UpdateProfile(ctx, s.ProfileID, in)
			if err != nil {
				return validationError(err)
			}
			return app.out.print(p, profilesTable([]social.Profile{p}))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVarP(&content, "content", "c", "", "bio")
	cmd.Flags().StringVar(&image, "image", "", "path of a new avatar")
	cmd.Flags().String("username", "", "new username")
	return cmd
}

func followCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow [profile-id]",
		Short: "Follow a profile, or unfollow it if you already do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			p, err := app.social.GetProfile(ctx, id)
			if err != nil {
				return err
			}

			profiles := app.social.Profiles(social.Query{})
			defer profiles.Close()
			profiles.Prepend(p)
			if err := app.social.ToggleFollow(ctx, profiles, id); err != nil {
				return err
			}
			p = held(profiles, id)
			return app.out.print(p, profilesTable([]social.Profile{p}))
		},
	}
}

func profilesTable(profiles []social.Profile) table {
	t := table{header: []string{"ID", "OWNER", "NAME", "POSTS", "FOLLOWERS", "FOLLOWING", "FOLLOWED"}}
	for _, p := range profiles {
		t.add(
			itoa(p.ID), p.Owner, truncate(p.Name, 30),
			itoa(p.PostsCount), itoa(p.FollowersCount), itoa(p.FollowingCount),
			optionalID(p.FollowingID),
		)
	}
	return t
}
